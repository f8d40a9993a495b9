// Package skewt implements the Azzalini-Capitanio skewed Student's t
// distribution and its maximum likelihood fit.
//
// The standardized density is
//
//	f(z) = 2 t(z; ν) T(α z sqrt((ν+1)/(z²+ν)); ν+1)
//
// where t and T are the Student's t density and distribution function, ν the
// degrees of freedom and α the shape. Location μ and scale σ enter as
// f((x-μ)/σ)/σ.
package skewt

import (
	"math"

	"github.com/kberkey/ccal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

type SkewT struct {
	DF       float64
	Shape    float64
	Location float64
	Scale    float64

	t  distuv.StudentsT
	t1 distuv.StudentsT
}

func New(df, shape, location, scale float64) SkewT {
	return SkewT{
		DF:       df,
		Shape:    shape,
		Location: location,
		Scale:    scale,
		t:        distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df},
		t1:       distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df + 1},
	}
}

func FromFit(fit model.FitRecord) SkewT {
	return New(fit.DF, fit.Shape, fit.Location, fit.Scale)
}

func (s SkewT) Prob(x float64) float64 {
	z := (x - s.Location) / s.Scale
	return 2 * s.t.Prob(z) * s.t1.CDF(s.skewArg(z)) / s.Scale
}

func (s SkewT) LogProb(x float64) float64 {
	z := (x - s.Location) / s.Scale
	return math.Ln2 + s.t.LogProb(z) + math.Log(s.t1.CDF(s.skewArg(z))) - math.Log(s.Scale)
}

func (s SkewT) skewArg(z float64) float64 {
	return s.Shape * z * math.Sqrt((s.DF+1)/(z*z+s.DF))
}

// Probs evaluates the density at every x.
func (s SkewT) Probs(xs []float64) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = s.Prob(x)
	}
	return res
}

func (s SkewT) LogLikelihood(xs []float64) float64 {
	ll := 0.0
	for _, x := range xs {
		ll += s.LogProb(x)
	}
	return ll
}

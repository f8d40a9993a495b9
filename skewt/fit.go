package skewt

import (
	"context"
	"fmt"
	"math"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/kde"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultInitialDF     = 4.0
	DefaultMaxIterations = 20000

	// Bounds of the standardized problem on |log df|, |log scale| and
	// |shape|. Outside them the likelihood is treated as zero.
	maxLogParam = 12.0
	maxShape    = 30.0

	// An optimum past this fraction of a bound is a likelihood that keeps
	// growing toward the bound, not a fit.
	boundaryFraction = 0.9

	simplexSize = 0.5
)

// Fitter fits a skew-t to one score vector by maximum likelihood.
type Fitter struct {
	InitialDF     float64
	MaxIterations int
}

func NewFitter(initialDF float64, maxIterations int) *Fitter {
	if initialDF <= 0 {
		initialDF = DefaultInitialDF
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Fitter{
		InitialDF:     initialDF,
		MaxIterations: maxIterations,
	}
}

// Fit drops missing values and fits df, shape, location and scale. Every
// failure wraps common.ErrFit, including the optimizer stopping before
// convergence and an optimum at the edge of the search space.
func (f *Fitter) Fit(ctx context.Context, values []float64) (model.FitRecord, error) {
	logger := utils.GetLogger(ctx)

	data := utils.DropNaN(values)
	n := len(data)
	if n == 0 {
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, common.ErrEmptyVector)
	}

	mean, std := stat.MeanStdDev(data, nil)
	if n < 2 || !(std > 0) || math.IsInf(std, 0) {
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, common.ErrDegenerateVector)
	}

	// Fit on the standardized vector so the simplex size means the same
	// thing for every feature.
	z := make([]float64, n)
	for i, v := range data {
		z[i] = (v - mean) / std
	}

	initX, err := f.initialGuess(z)
	if err != nil {
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, err)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if math.Abs(x[0]) > maxLogParam || math.Abs(x[3]) > maxLogParam || math.Abs(x[1]) > maxShape {
				return math.Inf(1)
			}
			ll := New(math.Exp(x[0]), x[1], x[2], math.Exp(x[3])).LogLikelihood(z)
			if math.IsNaN(ll) {
				return math.Inf(1)
			}
			return -ll
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		MajorIterations: f.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 200,
		},
	}

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{SimplexSize: simplexSize})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.FitRecord{}, ctxErr
	}
	if err != nil {
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, err)
	}
	if result.Status.Early() {
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, result.Status.Err())
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return model.FitRecord{}, fmt.Errorf("%w: likelihood is zero at the optimum", common.ErrFit)
	}
	if err := checkBounds(result.X); err != nil {
		logger.Debug("skew-t fit ran into a bound", zap.Float64s("x", result.X), zap.Error(err))
		return model.FitRecord{}, fmt.Errorf("%w: %w", common.ErrFit, err)
	}

	x := result.X
	fit := model.FitRecord{
		N:        n,
		DF:       math.Exp(x[0]),
		Shape:    x[1],
		Location: mean + std*x[2],
		Scale:    std * math.Exp(x[3]),
	}
	logger.Debug("skew-t fitted", zap.Any("fit", fit),
		zap.Int("iterations", result.MajorIterations), zap.Stringer("status", result.Status))
	return fit, nil
}

// initialGuess returns (log df, shape, location, log scale) for the
// standardized data z: the KDE mode as location and the sign of the sample
// skewness as shape.
func (f *Fitter) initialGuess(z []float64) ([]float64, error) {
	k, err := kde.NewKDEUnivariate(z, 1.0, kde.DefaultCut)
	if err != nil {
		return nil, err
	}
	shape := utils.Sign(stat.Skew(z, nil))
	if math.IsNaN(shape) {
		shape = 0
	}
	return []float64{math.Log(f.InitialDF), shape, k.Mode(), 0}, nil
}

// checkBounds rejects a standardized optimum (log df, shape, location,
// log scale) that sits at the edge of the search space.
func checkBounds(x []float64) error {
	switch {
	case math.Abs(x[0]) >= boundaryFraction*maxLogParam:
		return fmt.Errorf("degrees of freedom %g at the edge of the search space", math.Exp(x[0]))
	case math.Abs(x[1]) >= boundaryFraction*maxShape:
		return fmt.Errorf("standardized shape %g at the edge of the search space", x[1])
	case math.Abs(x[3]) >= boundaryFraction*maxLogParam:
		return fmt.Errorf("standardized scale %g at the edge of the search space", math.Exp(x[3]))
	}
	return nil
}

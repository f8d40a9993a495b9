package kde

import (
	"fmt"
	"math"
	"sort"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"gonum.org/v1/gonum/floats"
)

// KDEUnivariate is a Gaussian kernel density estimate of one score vector.
type KDEUnivariate struct {
	// Grid extends cut*bw past min and max of Endog.
	cut float64

	// An adjustment factor for the bw. Bandwidth becomes bw * adjust.
	bwAdjust float64

	gridSize int

	// sorted copy of the observations
	Endog []float64

	density []model.Density
	bw      float64
	fitted  bool
	kernel  *GaussianKernel
}

// NewKDEUnivariate copies and sorts endog. NaN values are rejected, callers
// drop them first.
func NewKDEUnivariate(endog []float64, bwAdjust float64, cut float64) (*KDEUnivariate, error) {
	if len(endog) == 0 {
		return nil, common.ErrInvalidValue
	}
	if floats.HasNaN(endog) {
		return nil, fmt.Errorf("%w: kde input contains NaN", common.ErrInvalidValue)
	}

	sorted := append([]float64(nil), endog...)
	sort.Float64s(sorted)

	if bwAdjust <= 0 {
		bwAdjust = 1
	}
	if cut == 0 {
		cut = DefaultCut
	}

	return &KDEUnivariate{
		cut:      cut,
		bwAdjust: bwAdjust,
		gridSize: max(len(sorted), MinGridSize),
		Endog:    sorted,
	}, nil
}

// Kdensity evaluates the estimate on its own grid and returns it along with
// the bandwidth.
func (kde *KDEUnivariate) Kdensity() ([]model.Density, float64) {
	if kde.fitted {
		return kde.density, kde.bw
	}

	kernel := NewGaussianKernel()
	bw := NewNormalReferenceBandWidth(kernel).BandWidth(kde.Endog) * kde.bwAdjust
	if bw <= 0 || math.IsNaN(bw) {
		// zero-spread data, any positive width gives a single spike
		bw = 1
	}
	kernel.SetH(bw)

	a := kde.Endog[0] - kde.cut*bw
	b := kde.Endog[len(kde.Endog)-1] + kde.cut*bw
	grid := floats.Span(make([]float64, kde.gridSize), a, b)

	res := make([]model.Density, len(grid))
	for i, x := range grid {
		res[i] = model.Density{
			X:     x,
			Value: kernel.Density(kde.Endog, x),
		}
	}

	kde.density = res
	kde.bw = bw
	kde.kernel = kernel
	kde.fitted = true

	return res, bw
}

// Mode is the grid point with the highest estimated density.
func (kde *KDEUnivariate) Mode() float64 {
	density, _ := kde.Kdensity()
	values := make([]float64, len(density))
	for i, d := range density {
		values[i] = d.Value
	}
	return density[floats.MaxIdx(values)].X
}

// EvaluateOn returns the density at every point of grid.
func (kde *KDEUnivariate) EvaluateOn(grid []float64) []float64 {
	kde.Kdensity()

	res := make([]float64, len(grid))
	for i, x := range grid {
		res[i] = kde.kernel.Density(kde.Endog, x)
	}
	return res
}

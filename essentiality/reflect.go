package essentiality

import (
	"fmt"

	"github.com/kberkey/ccal/common"
	"gonum.org/v1/gonum/floats"
)

// Reflect mirrors every grid coordinate through the grid coordinate of the
// curve's maximum: out[i] = 2*pivot - grid[i]. The pivot is the discrete
// argmax (first one on ties), so a flat curve pivots on grid[0].
func Reflect(curve, grid []float64) ([]float64, error) {
	if len(curve) == 0 || len(curve) != len(grid) {
		return nil, fmt.Errorf("%w: curve has %d points, grid has %d",
			common.ErrInvalidValue, len(curve), len(grid))
	}

	pivot := grid[floats.MaxIdx(curve)]

	res := make([]float64, len(grid))
	for i, x := range grid {
		res[i] = 2*pivot - x
	}
	return res, nil
}

package essentiality

import (
	"fmt"

	"github.com/kberkey/ccal/common"
)

type Direction int

const (
	Negative Direction = -1
	Positive Direction = 1
)

// DirectionOf maps a fitted skew-t shape to the direction of its index
// curve. A shape of exactly 0 counts as negative.
func DirectionOf(shape float64) Direction {
	if shape > 0 {
		return Positive
	}
	return Negative
}

func (d Direction) String() string {
	if d == Positive {
		return "+"
	}
	return "-"
}

// CumulativeAreaRatio returns, for each grid point, the trapezoid area under
// curveA from grid[0] divided by the sum of that area and the one under
// curveB. Both areas are 0 at the first point, and a zero denominator gives
// 0. Negative reports 1 - ratio. The result is not necessarily monotone.
func CumulativeAreaRatio(curveA, curveB, grid []float64, dir Direction) ([]float64, error) {
	if len(grid) == 0 || len(curveA) != len(grid) || len(curveB) != len(grid) {
		return nil, fmt.Errorf("%w: curves have %d and %d points, grid has %d",
			common.ErrInvalidValue, len(curveA), len(curveB), len(grid))
	}
	if dir != Positive && dir != Negative {
		return nil, fmt.Errorf("%w: direction %d", common.ErrInvalidValue, dir)
	}

	cumA := cumulativeTrapezoid(curveA, grid)
	cumB := cumulativeTrapezoid(curveB, grid)

	res := make([]float64, len(grid))
	for i := range grid {
		ratio := 0.0
		if total := cumA[i] + cumB[i]; total != 0 {
			ratio = cumA[i] / total
		}
		if dir == Negative {
			ratio = 1 - ratio
		}
		res[i] = ratio
	}
	return res, nil
}

func cumulativeTrapezoid(f, x []float64) []float64 {
	res := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		res[i] = res[i-1] + (x[i]-x[i-1])*(f[i]+f[i-1])/2
	}
	return res
}

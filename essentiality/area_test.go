package essentiality

import (
	"errors"
	"math"

	"github.com/kberkey/ccal/common"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/check.v1"
)

type areaSuite struct{}

var _ = check.Suite(&areaSuite{})

func (s *areaSuite) TestCumulativeAreaRatio(c *check.C) {
	grid := []float64{0, 1, 2}
	for _, trial := range []struct {
		a, b []float64
		dir  Direction
		out  []float64
	}{
		{[]float64{1, 1, 1}, []float64{0, 0, 0}, Positive, []float64{0, 1, 1}},
		{[]float64{1, 1, 1}, []float64{0, 0, 0}, Negative, []float64{1, 0, 0}},
		{[]float64{1, 1, 1}, []float64{1, 1, 1}, Positive, []float64{0, 0.5, 0.5}},
		{[]float64{0, 0, 0}, []float64{0, 0, 0}, Positive, []float64{0, 0, 0}},
		{[]float64{0, 0, 0}, []float64{0, 0, 0}, Negative, []float64{1, 1, 1}},
		{[]float64{0, 2, 0}, []float64{0, 0, 2}, Positive, []float64{0, 1, 2.0 / 3}},
	} {
		out, err := CumulativeAreaRatio(trial.a, trial.b, grid, trial.dir)
		c.Assert(err, check.IsNil)
		c.Check(out, check.DeepEquals, trial.out, check.Commentf("a=%v b=%v dir=%v", trial.a, trial.b, trial.dir))
	}
}

func (s *areaSuite) TestDirectionsComplement(c *check.C) {
	grid := floats.Span(make([]float64, 200), -3, 4)
	a := make([]float64, len(grid))
	b := make([]float64, len(grid))
	for i, x := range grid {
		a[i] = math.Exp(-x * x / 2)
		b[i] = math.Exp(-(x - 1) * (x - 1))
	}

	pos, err := CumulativeAreaRatio(a, b, grid, Positive)
	c.Assert(err, check.IsNil)
	neg, err := CumulativeAreaRatio(a, b, grid, Negative)
	c.Assert(err, check.IsNil)

	c.Check(pos[0], check.Equals, 0.0)
	c.Check(neg[0], check.Equals, 1.0)
	for i := range grid {
		c.Check(math.Abs(pos[i]+neg[i]-1) < 1e-12, check.Equals, true, check.Commentf("i=%d", i))
		c.Check(pos[i] >= 0 && pos[i] <= 1, check.Equals, true, check.Commentf("i=%d", i))
	}
}

func (s *areaSuite) TestCumulativeAreaRatioErrors(c *check.C) {
	_, err := CumulativeAreaRatio([]float64{1}, []float64{1, 2}, []float64{1, 2}, Positive)
	c.Check(errors.Is(err, common.ErrInvalidValue), check.Equals, true)
	_, err = CumulativeAreaRatio([]float64{1, 2}, []float64{1, 2}, []float64{1, 2}, Direction(0))
	c.Check(errors.Is(err, common.ErrInvalidValue), check.Equals, true)
}

func (s *areaSuite) TestDirection(c *check.C) {
	c.Check(DirectionOf(0.3), check.Equals, Positive)
	c.Check(DirectionOf(-0.3), check.Equals, Negative)
	c.Check(DirectionOf(0), check.Equals, Negative)
	c.Check(Positive.String(), check.Equals, "+")
	c.Check(Negative.String(), check.Equals, "-")
}

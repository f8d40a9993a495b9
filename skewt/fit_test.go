package skewt

import (
	"context"
	"errors"
	"math"

	"github.com/kberkey/ccal/common"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/check.v1"
)

type fitSuite struct{}

var _ = check.Suite(&fitSuite{})

// rightSkewed returns n evenly spaced quantiles of a log-normal.
func rightSkewed(n int) []float64 {
	norm := distuv.Normal{Mu: 0, Sigma: 0.6}
	res := make([]float64, n)
	for i := range res {
		res[i] = math.Exp(norm.Quantile((float64(i) + 0.5) / float64(n)))
	}
	return res
}

func (s *fitSuite) TestFitSkewDirection(c *check.C) {
	data := rightSkewed(200)
	fit, err := NewFitter(0, 0).Fit(context.Background(), data)
	c.Assert(err, check.IsNil)
	c.Check(fit.N, check.Equals, 200)
	c.Check(fit.Shape > 0, check.Equals, true, check.Commentf("%+v", fit))
	c.Check(fit.DF > 0, check.Equals, true)
	c.Check(fit.Scale > 0, check.Equals, true)

	mirrored := make([]float64, len(data))
	for i, v := range data {
		mirrored[i] = -v
	}
	mfit, err := NewFitter(0, 0).Fit(context.Background(), mirrored)
	c.Assert(err, check.IsNil)
	c.Check(mfit.Shape < 0, check.Equals, true, check.Commentf("%+v", mfit))
}

func (s *fitSuite) TestFitImprovesLikelihood(c *check.C) {
	data := rightSkewed(100)
	fit, err := NewFitter(0, 0).Fit(context.Background(), data)
	c.Assert(err, check.IsNil)

	fitted := FromFit(fit).LogLikelihood(data)
	symmetric := New(fit.DF, 0, fit.Location, fit.Scale).LogLikelihood(data)
	c.Check(fitted > symmetric, check.Equals, true)
}

func (s *fitSuite) TestFitDropsMissing(c *check.C) {
	data := append(rightSkewed(50), math.NaN(), math.NaN())
	fit, err := NewFitter(0, 0).Fit(context.Background(), data)
	c.Assert(err, check.IsNil)
	c.Check(fit.N, check.Equals, 50)
}

func (s *fitSuite) TestFitErrors(c *check.C) {
	f := NewFitter(0, 0)
	for _, trial := range []struct {
		data []float64
		want error
	}{
		{nil, common.ErrEmptyVector},
		{[]float64{math.NaN()}, common.ErrEmptyVector},
		{[]float64{3}, common.ErrDegenerateVector},
		{[]float64{2, 2, 2, math.NaN()}, common.ErrDegenerateVector},
	} {
		_, err := f.Fit(context.Background(), trial.data)
		c.Check(errors.Is(err, common.ErrFit), check.Equals, true, check.Commentf("%v", trial.data))
		c.Check(errors.Is(err, trial.want), check.Equals, true, check.Commentf("%v", trial.data))
	}
}

// exponentialTail returns n evenly spaced quantiles of -Exp(1), whose
// likelihood keeps growing as the shape goes to minus infinity.
func exponentialTail(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = math.Log(1 - (float64(i)+0.5)/float64(n))
	}
	return res
}

func (s *fitSuite) TestUnboundedLikelihood(c *check.C) {
	fit, err := NewFitter(0, 0).Fit(context.Background(), exponentialTail(400))
	c.Check(errors.Is(err, common.ErrFit), check.Equals, true, check.Commentf("%+v", fit))
	c.Check(err, check.ErrorMatches, `.*at the edge of the search space`)
}

func (s *fitSuite) TestCheckBounds(c *check.C) {
	c.Check(checkBounds([]float64{math.Log(5), -3, 0.2, 0}), check.IsNil)
	for _, x := range [][]float64{
		{maxLogParam, 1, 0, 0},
		{-maxLogParam * 0.95, 1, 0, 0},
		{1, -maxShape, 0, 0},
		{1, maxShape * 0.91, 0, 0},
		{1, 1, 0, -maxLogParam},
	} {
		c.Check(checkBounds(x), check.ErrorMatches, `.* at the edge of the search space`, check.Commentf("%v", x))
	}
}

func (s *fitSuite) TestNonConvergence(c *check.C) {
	_, err := NewFitter(0, 1).Fit(context.Background(), rightSkewed(50))
	c.Check(errors.Is(err, common.ErrFit), check.Equals, true)
}

func (s *fitSuite) TestCancelled(c *check.C) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFitter(0, 0).Fit(ctx, rightSkewed(50))
	c.Check(errors.Is(err, context.Canceled), check.Equals, true)
}

func (s *fitSuite) TestNewFitterDefaults(c *check.C) {
	f := NewFitter(-1, 0)
	c.Check(f.InitialDF, check.Equals, DefaultInitialDF)
	c.Check(f.MaxIterations, check.Equals, DefaultMaxIterations)
	f = NewFitter(10, 50)
	c.Check(f.InitialDF, check.Equals, 10.0)
	c.Check(f.MaxIterations, check.Equals, 50)
}

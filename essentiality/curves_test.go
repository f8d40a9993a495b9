package essentiality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/check.v1"
)

type curvesSuite struct {
	scores     *model.ScoreMatrix
	indicators *model.ScoreMatrix
	fits       *model.FitTable
}

var _ = check.Suite(&curvesSuite{})

func (s *curvesSuite) SetUpTest(c *check.C) {
	samples := make([]string, 20)
	row := make([]float64, 20)
	for i := range samples {
		samples[i] = fmt.Sprintf("s%d", i)
		row[i] = float64(i)*0.25 - 2
	}
	var err error
	s.scores, err = model.NewScoreMatrix([]string{"A"}, samples, [][]float64{row})
	c.Assert(err, check.IsNil)

	// indicator samples in reverse order, s0 missing, one unknown sample
	indSamples := []string{"x"}
	mut := []float64{1}
	for i := 19; i >= 1; i-- {
		indSamples = append(indSamples, samples[i])
		mut = append(mut, float64(i%2))
	}
	s.indicators, err = model.NewScoreMatrix([]string{"A_MUT"}, indSamples, [][]float64{mut})
	c.Assert(err, check.IsNil)

	s.fits, err = model.NewFitTable([]model.FeatureFit{
		{Feature: "A", FitRecord: model.FitRecord{N: 20, DF: 5, Shape: 2, Location: -1, Scale: 1.5}},
	})
	c.Assert(err, check.IsNil)
}

func (s *curvesSuite) TestDiagnose(c *check.C) {
	curves, err := Diagnose(context.Background(), s.scores, s.indicators, s.fits, "A", DiagnoseOptions{GridSize: 200, Bins: 10})
	c.Assert(err, check.IsNil)

	c.Check(curves.Feature, check.Equals, "A")
	c.Check(curves.Grid, check.HasLen, 200)
	c.Check(curves.PDF, check.HasLen, 200)
	c.Check(curves.ReflectedPDF, check.HasLen, 200)
	c.Check(curves.EssentialityIdx, check.HasLen, 200)
	c.Check(curves.EmpiricalDensity, check.HasLen, 200)
	c.Check(curves.Grid[0], check.Equals, -2.0)
	c.Check(curves.Grid[199], check.Equals, 2.75)

	c.Check(curves.Histogram.Dividers, check.HasLen, 11)
	c.Check(curves.Histogram.Counts, check.HasLen, 10)
	c.Check(floats.Sum(curves.Histogram.Counts), check.Equals, 20.0)
	c.Check(math.Abs(floats.Max(curves.PDF)-curves.Histogram.MaxCount()) < 1e-9, check.Equals, true)
	c.Check(floats.Min(curves.EmpiricalDensity) >= 0, check.Equals, true)

	c.Check(curves.IndicatorNames, check.DeepEquals, []string{"A_AMP", "A_MUT", "A_DEL"})
	c.Assert(curves.Rugs, check.HasLen, 3)
	for _, i := range []int{0, 2} {
		for _, v := range curves.Rugs[i] {
			c.Check(math.IsNaN(v), check.Equals, true)
		}
	}
	mut := curves.Rugs[1]
	c.Check(math.IsNaN(mut[0]), check.Equals, true)
	for i := 1; i < 20; i++ {
		want := float64(i%2) * (float64(i)*0.25 - 2)
		c.Check(mut[i], check.Equals, want, check.Commentf("sample s%d", i))
	}
}

func (s *curvesSuite) TestDiagnoseUnknownFeature(c *check.C) {
	_, err := Diagnose(context.Background(), s.scores, s.indicators, s.fits, "B", DiagnoseOptions{})
	c.Check(errors.Is(err, common.ErrSelection), check.Equals, true)
}

func (s *curvesSuite) TestDiagnoseAll(c *check.C) {
	var mtx sync.Mutex
	var got []string
	emit := func(curves *model.Curves) error {
		mtx.Lock()
		defer mtx.Unlock()
		got = append(got, curves.Feature)
		return nil
	}
	err := DiagnoseAll(context.Background(), s.scores, nil, s.fits, nil, DiagnoseOptions{GridSize: 50}, emit)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, []string{"A"})

	err = DiagnoseAll(context.Background(), s.scores, nil, s.fits, []string{"NOPE"}, DiagnoseOptions{}, emit)
	c.Check(errors.Is(err, common.ErrSelection), check.Equals, true)

	failed := errors.New("disk full")
	err = DiagnoseAll(context.Background(), s.scores, nil, s.fits, []string{"A"}, DiagnoseOptions{GridSize: 50},
		func(*model.Curves) error { return failed })
	c.Check(err, check.Equals, failed)
}

func (s *curvesSuite) TestHistogram(c *check.C) {
	h := histogram([]float64{0, 1, 2, 3, 4}, 2)
	c.Check(h.Dividers, check.DeepEquals, []float64{0, 2, 4})
	c.Check(h.Counts, check.DeepEquals, []float64{2, 3})
	c.Check(h.MaxCount(), check.Equals, 3.0)

	h = histogram([]float64{1, 1}, 2)
	c.Check(h.Dividers, check.DeepEquals, []float64{0.5, 1, 1.5})
	c.Check(h.Counts, check.DeepEquals, []float64{0, 2})
}

package tableio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"gopkg.in/check.v1"
)

type curvesSuite struct{}

var _ = check.Suite(&curvesSuite{})

func (s *curvesSuite) TestWriteCurves(c *check.C) {
	tmpdir := c.MkDir()
	nan := math.NaN()
	curves := &model.Curves{
		Feature:          "GENEX",
		Fit:              model.FitRecord{N: 3, DF: 4, Shape: 1.5, Location: 0, Scale: 1},
		Histogram:        model.Histogram{Dividers: []float64{0, 1, 2}, Counts: []float64{2, 1}},
		ScaleFactor:      2,
		Grid:             []float64{0, 1, 2},
		PDF:              []float64{0.5, 2, 1},
		ReflectedPDF:     []float64{1, 2, 0.5},
		EssentialityIdx:  []float64{0, 0.25, 0.5},
		EmpiricalDensity: []float64{1, 1.5, 1},
		Samples:          []string{"s1", "s2"},
		IndicatorNames:   []string{"GENEX_AMP", "GENEX_MUT", "GENEX_DEL"},
		Rugs:             [][]float64{{nan, nan}, {0, 1.5}, {nan, nan}},
	}
	c.Assert(WriteCurves(tmpdir, curves, false), check.IsNil)

	curvesPath, histPath, rugsPath := CurvesPaths(tmpdir, "GENEX")
	c.Check(curvesPath, check.Equals, filepath.Join(tmpdir, PlotDir, "GENEX.curves.tsv"))

	buf, err := os.ReadFile(curvesPath)
	c.Assert(err, check.IsNil)
	lines := strings.Split(strings.TrimSuffix(string(buf), "\n"), "\n")
	c.Assert(lines, check.HasLen, 5)
	c.Check(lines[0], check.Equals, "# GENEX\tN=3\tDF=4.00\tShape=1.50\tLocation=0.00\tScale=1.00\tScaleFactor=2")
	c.Check(lines[1], check.Equals, "x\tpdf\treflected_pdf\tessentiality_index\tempirical_density")
	c.Check(lines[3], check.Equals, "1\t2\t2\t0.25\t1.5")

	buf, err = os.ReadFile(histPath)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, "left\tright\tcount\n0\t1\t2\n1\t2\t1\n")

	rugs, err := ReadMatrix(rugsPath)
	c.Assert(err, check.IsNil)
	c.Check(rugs.Features, check.DeepEquals, curves.IndicatorNames)
	c.Check(rugs.Values[1], check.DeepEquals, []float64{0, 1.5})

	err = WriteCurves(tmpdir, curves, false)
	c.Check(errors.Is(err, common.ErrOverwrite), check.Equals, true)
	c.Check(WriteCurves(tmpdir, curves, true), check.IsNil)
}

func (s *curvesSuite) TestWriteCurvesAllOrNothing(c *check.C) {
	tmpdir := c.MkDir()
	curvesPath, histPath, rugsPath := CurvesPaths(tmpdir, "GENEX")
	c.Assert(os.MkdirAll(filepath.Dir(histPath), 0755), check.IsNil)
	c.Assert(os.WriteFile(histPath, []byte("kept\n"), 0644), check.IsNil)

	curves := &model.Curves{
		Feature:          "GENEX",
		Histogram:        model.Histogram{Dividers: []float64{0, 1}, Counts: []float64{1}},
		Grid:             []float64{0},
		PDF:              []float64{1},
		ReflectedPDF:     []float64{1},
		EssentialityIdx:  []float64{0},
		EmpiricalDensity: []float64{1},
	}
	err := WriteCurves(tmpdir, curves, false)
	c.Check(errors.Is(err, common.ErrOverwrite), check.Equals, true)
	for _, path := range []string{curvesPath, rugsPath} {
		_, err := os.Stat(path)
		c.Check(os.IsNotExist(err), check.Equals, true, check.Commentf("%s", path))
	}
	buf, err := os.ReadFile(histPath)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, "kept\n")
}

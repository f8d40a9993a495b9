package tableio

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
)

const PlotDir = "essentiality_plots"

// CurvesPaths returns the three files WriteCurves produces for feature
// under dir.
func CurvesPaths(dir, feature string) (curves, histogram, rugs string) {
	base := filepath.Join(dir, PlotDir, feature)
	return base + ".curves.tsv", base + ".histogram.tsv", base + ".rugs.tsv"
}

// WriteCurves writes the figure data of one feature under
// dir/essentiality_plots. With overwrite unset, any existing target is
// common.ErrOverwrite and nothing is written.
func WriteCurves(dir string, c *model.Curves, overwrite bool) error {
	curvesPath, histPath, rugsPath := CurvesPaths(dir, c.Feature)
	if !overwrite {
		if err := checkAbsent(curvesPath, histPath, rugsPath); err != nil {
			return err
		}
	}

	err := withWriter(curvesPath, overwrite, func(w io.Writer) error {
		return WriteCurvesTo(w, c)
	})
	if err != nil {
		return err
	}
	err = withWriter(histPath, overwrite, func(w io.Writer) error {
		return writeHistogramTo(w, &c.Histogram)
	})
	if err != nil {
		return err
	}
	return withWriter(rugsPath, overwrite, func(w io.Writer) error {
		return writeRugsTo(w, c)
	})
}

// WriteCurvesTo writes a comment line with the fit, then one row per grid
// point.
func WriteCurvesTo(w io.Writer, c *model.Curves) error {
	_, err := fmt.Fprintf(w, "# %s\tN=%d\tDF=%.2f\tShape=%.2f\tLocation=%.2f\tScale=%.2f\tScaleFactor=%s\n",
		c.Feature, c.Fit.N, c.Fit.DF, c.Fit.Shape, c.Fit.Location, c.Fit.Scale, utils.FormatValue(c.ScaleFactor))
	if err != nil {
		return err
	}
	cw := newWriter(w)
	cw.Write([]string{"x", "pdf", "reflected_pdf", "essentiality_index", "empirical_density"})
	for i, x := range c.Grid {
		cw.Write([]string{
			utils.FormatValue(x),
			utils.FormatValue(c.PDF[i]),
			utils.FormatValue(c.ReflectedPDF[i]),
			utils.FormatValue(c.EssentialityIdx[i]),
			utils.FormatValue(c.EmpiricalDensity[i]),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeHistogramTo(w io.Writer, h *model.Histogram) error {
	cw := newWriter(w)
	cw.Write([]string{"left", "right", "count"})
	for i, count := range h.Counts {
		cw.Write([]string{
			utils.FormatValue(h.Dividers[i]),
			utils.FormatValue(h.Dividers[i+1]),
			utils.FormatValue(count),
		})
	}
	cw.Flush()
	return cw.Error()
}

// writeRugsTo writes the rug rows as a matrix with the indicator names as
// row ids.
func writeRugsTo(w io.Writer, c *model.Curves) error {
	m, err := model.NewScoreMatrix(c.IndicatorNames, c.Samples, c.Rugs)
	if err != nil {
		return err
	}
	return WriteMatrixTo(w, m)
}

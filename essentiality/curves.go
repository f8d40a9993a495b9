package essentiality

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/kde"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const DefaultHistogramBins = 50

type DiagnoseOptions struct {
	GridSize int // 0 means DefaultGridSize
	Bins     int // 0 means DefaultHistogramBins
	Workers  int // 0 means GOMAXPROCS
}

// Diagnose computes the figure data of one feature: a histogram of its
// observed scores, the fitted and reflected densities scaled to the tallest
// bin, the index curve, a KDE overlay in count units and one rug row per
// AMP/MUT/DEL indicator.
func Diagnose(ctx context.Context, scores, indicators *model.ScoreMatrix, fits *model.FitTable,
	feature string, opts DiagnoseOptions) (*model.Curves, error) {
	row, ok := scores.Row(feature)
	if !ok {
		return nil, fmt.Errorf("%w: feature %q not in score matrix", common.ErrSelection, feature)
	}
	fit, ok := fits.Get(feature)
	if !ok {
		return nil, fmt.Errorf("%w: feature %q not in fit table", common.ErrSelection, feature)
	}

	observed := utils.DropNaN(row)
	if len(observed) == 0 {
		return nil, fmt.Errorf("%w: feature %q: %w", common.ErrInvalidValue, feature, common.ErrEmptyVector)
	}
	sort.Float64s(observed)
	lo, hi := observed[0], observed[len(observed)-1]

	gridSize := BuildOptions{GridSize: opts.GridSize}.gridSize()
	curve, err := NewIndexCurve(fit, lo, hi, gridSize)
	if err != nil {
		return nil, fmt.Errorf("feature %q: %w", feature, err)
	}

	bins := opts.Bins
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	hist := histogram(observed, bins)

	scale := 1.0
	if pdfMax := floats.Max(curve.PDF); pdfMax > 0 {
		scale = hist.MaxCount() / pdfMax
	}

	k, err := kde.NewKDEUnivariate(observed, 1.0, kde.DefaultCut)
	if err != nil {
		return nil, err
	}
	binWidth := hist.Dividers[1] - hist.Dividers[0]
	empirical := k.EvaluateOn(curve.Grid)
	floats.Scale(float64(len(observed))*binWidth, empirical)

	bars := LookupAmpMutDel(ctx, indicators, feature)
	rugs := make([][]float64, bars.Len())
	for i := range bars.Features {
		rugs[i] = alignRug(scores.Samples, row, bars.Samples, bars.Values[i])
	}

	return &model.Curves{
		Feature:          feature,
		Fit:              fit,
		Histogram:        hist,
		ScaleFactor:      scale,
		Grid:             curve.Grid,
		PDF:              floats.ScaleTo(make([]float64, gridSize), scale, curve.PDF),
		ReflectedPDF:     floats.ScaleTo(make([]float64, gridSize), scale, curve.ReflectedPDF),
		EssentialityIdx:  curve.Index,
		EmpiricalDensity: empirical,
		Samples:          scores.Samples,
		IndicatorNames:   bars.Features,
		Rugs:             rugs,
	}, nil
}

// DiagnoseAll runs Diagnose for every requested feature, or for every
// feature of scores that has a fit when features is empty, and hands each
// result to emit. emit is called concurrently from up to opts.Workers
// goroutines.
func DiagnoseAll(ctx context.Context, scores, indicators *model.ScoreMatrix, fits *model.FitTable,
	features []string, opts DiagnoseOptions, emit func(*model.Curves) error) error {
	logger := utils.GetLogger(ctx)

	if len(features) == 0 {
		features = commonFeatures(scores, fits)
	} else {
		requested := features
		features = []string{}
		for _, feature := range requested {
			if scores.Has(feature) && fits.Has(feature) {
				features = append(features, feature)
			}
		}
		if len(features) == 0 {
			return fmt.Errorf("%w: %v", common.ErrSelection, requested)
		}
	}
	if len(features) == 0 {
		return common.ErrNoCommonFeatures
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(FitOptions{Workers: opts.Workers}.workers())
	for i, feature := range features {
		i, feature := i, feature
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("diagnosing feature", zap.String("feature", feature), zap.Int("index", i))
			curves, err := Diagnose(gctx, scores, indicators, fits, feature, opts)
			if err != nil {
				return err
			}
			return emit(curves)
		})
	}
	return g.Wait()
}

// histogram bins sorted x into n equal bins over [x[0], x[last]] with the
// last bin closed, as numpy does. Constant data gets the range x±0.5.
func histogram(x []float64, n int) model.Histogram {
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	dividers[n] = hi

	// stat.Histogram bins are half open; nudge the top edge so the maximum
	// lands in the last bin.
	edges := append([]float64(nil), dividers...)
	edges[n] = math.Nextafter(hi, math.Inf(1))

	return model.Histogram{
		Dividers: dividers,
		Counts:   stat.Histogram(nil, edges, x, nil),
	}
}

// alignRug multiplies each score by the indicator of the same sample.
// Samples without an indicator value give NaN.
func alignRug(scoreSamples []string, scores []float64, indicatorSamples []string, indicator []float64) []float64 {
	pos := make(map[string]int, len(indicatorSamples))
	for i, sample := range indicatorSamples {
		pos[sample] = i
	}
	res := utils.NaNs(len(scoreSamples))
	for i, sample := range scoreSamples {
		if j, ok := pos[sample]; ok {
			res[i] = indicator[j] * scores[i]
		}
	}
	return res
}

package essentiality

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fitter fits the distribution of one feature. skewt.Fitter is the
// production implementation.
type Fitter interface {
	Fit(ctx context.Context, values []float64) (model.FitRecord, error)
}

type FitOptions struct {
	// Workers bounds concurrent fits; 0 means GOMAXPROCS.
	Workers int

	// By default the first failed fit aborts the batch. With SkipFailed the
	// failed features are logged and left out of the table, and FitAll
	// returns the table together with the combined per-feature errors.
	SkipFailed bool
}

func (o FitOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FitAll fits every feature of matrix, or only the selected ones, and
// returns the fits sorted by Shape ascending. Features with equal shape keep
// their input order whatever the number of workers.
func FitAll(ctx context.Context, matrix *model.ScoreMatrix, selected []string, fitter Fitter, opts FitOptions) (*model.FitTable, error) {
	logger := utils.GetLogger(ctx)

	if matrix.IsEmpty() {
		return nil, fmt.Errorf("%w: score matrix has no features", common.ErrInvalidValue)
	}
	features, err := selectFeatures(matrix, selected)
	if err != nil {
		return nil, err
	}
	if len(selected) > 0 {
		logger.Info("fitting selected features", zap.Strings("features", features))
	} else {
		logger.Info("fitting all features", zap.Int("count", len(features)))
	}

	fits := make([]model.FitRecord, len(features))
	errs := make([]error, len(features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, feature := range features {
		i, feature := i, feature
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, _ := matrix.Row(feature)
			logger.Debug("fitting feature", zap.String("feature", feature), zap.Int("index", i))

			fit, err := fitFeature(gctx, fitter, row)
			if err != nil {
				err = fmt.Errorf("feature %q: %w", feature, err)
				if opts.SkipFailed && gctx.Err() == nil {
					logger.Warn("skipping feature", zap.String("feature", feature), zap.Error(err))
					errs[i] = err
					return nil
				}
				return err
			}
			fits[i] = fit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make([]model.FeatureFit, 0, len(features))
	for i, feature := range features {
		if errs[i] != nil {
			continue
		}
		res = append(res, model.FeatureFit{Feature: feature, FitRecord: fits[i]})
	}
	table, err := model.NewFitTable(res)
	if err != nil {
		return nil, err
	}
	table.SortByShape()

	logger.Info("fitted features", zap.Int("fitted", table.Len()), zap.Int("requested", len(features)))
	return table, multierr.Combine(errs...)
}

// fitFeature converts a panic in the numerical code into a fit error.
func fitFeature(ctx context.Context, fitter Fitter, row []float64) (fit model.FitRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger(ctx).Error("fit panicked", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			err = fmt.Errorf("%w: panic: %v", common.ErrFit, r)
		}
	}()
	return fitter.Fit(ctx, row)
}

// selectFeatures returns all features in matrix order, or the selected ones
// in selection order with duplicates, unknown features and all-missing rows
// removed.
func selectFeatures(matrix *model.ScoreMatrix, selected []string) ([]string, error) {
	if len(selected) == 0 {
		return append([]string(nil), matrix.Features...), nil
	}

	res := make([]string, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, feature := range selected {
		if seen[feature] {
			continue
		}
		seen[feature] = true
		row, ok := matrix.Row(feature)
		if !ok || allMissing(row) {
			continue
		}
		res = append(res, feature)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: %v", common.ErrSelection, selected)
	}
	return res, nil
}

func allMissing(row []float64) bool {
	for _, v := range row {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

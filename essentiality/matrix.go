package essentiality

import (
	"context"
	"fmt"
	"math"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/skewt"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const DefaultGridSize = 3000

type BuildOptions struct {
	// GridSize is the number of grid points per feature, at least 2.
	// 0 means DefaultGridSize.
	GridSize int

	// ScaleFactor multiplies every cell and must be non-zero.
	ScaleFactor float64

	// Workers bounds concurrent rows; 0 means GOMAXPROCS.
	Workers int
}

func (o BuildOptions) gridSize() int {
	if o.GridSize == 0 {
		return DefaultGridSize
	}
	return o.GridSize
}

func (o BuildOptions) workers() int {
	return FitOptions{Workers: o.Workers}.workers()
}

// IndexCurve is the per-feature essentiality index function and the two
// density curves it was derived from, all aligned with Grid.
type IndexCurve struct {
	Grid         []float64
	PDF          []float64
	ReflectedPDF []float64
	Index        []float64
}

// NewIndexCurve evaluates the fitted skew-t on gridSize points spanning
// [lo, hi], reflects it through its mode and derives the index curve in the
// direction of the fit's shape.
func NewIndexCurve(fit model.FitRecord, lo, hi float64, gridSize int) (*IndexCurve, error) {
	if err := validateFit(fit); err != nil {
		return nil, err
	}
	if gridSize < 2 {
		return nil, fmt.Errorf("%w: grid size %d, want at least 2", common.ErrInvalidValue, gridSize)
	}

	dist := skewt.FromFit(fit)
	grid := floats.Span(make([]float64, gridSize), lo, hi)
	grid[gridSize-1] = hi
	pdf := dist.Probs(grid)

	reflectedGrid, err := Reflect(pdf, grid)
	if err != nil {
		return nil, err
	}
	reflectedPDF := dist.Probs(reflectedGrid)

	index, err := CumulativeAreaRatio(pdf, reflectedPDF, grid, DirectionOf(fit.Shape))
	if err != nil {
		return nil, err
	}

	return &IndexCurve{
		Grid:         grid,
		PDF:          pdf,
		ReflectedPDF: reflectedPDF,
		Index:        index,
	}, nil
}

// Nearest returns the grid index closest to v, the lowest one on ties.
func (c *IndexCurve) Nearest(v float64) int {
	return floats.NearestIdx(c.Grid, v)
}

func (c *IndexCurve) At(v float64) float64 {
	return c.Index[c.Nearest(v)]
}

// Build maps every observed value of the features present in both matrix
// and fits onto that feature's index curve, signed by the fitted shape and
// multiplied by the scale factor. Rows follow matrix order. Missing values
// stay missing.
func Build(ctx context.Context, matrix *model.ScoreMatrix, fits *model.FitTable, opts BuildOptions) (*model.ScoreMatrix, error) {
	logger := utils.GetLogger(ctx)

	factor := opts.ScaleFactor
	if factor == 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: scale factor %v", common.ErrInvalidValue, factor)
	}

	features := commonFeatures(matrix, fits)
	if len(features) == 0 {
		logger.Warn("no common features", zap.String("scores", matrix.DebugString()), zap.Int("fits", fits.Len()))
		return nil, common.ErrNoCommonFeatures
	}
	logger.Info("making essentiality matrix", zap.String("scores", matrix.DebugString()),
		zap.Int("commonFeatures", len(features)))

	gridSize := opts.gridSize()
	values := make([][]float64, len(features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, feature := range features {
		i, feature := i, feature
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, _ := matrix.Row(feature)
			fit, _ := fits.Get(feature)
			out, err := essentialityRow(row, fit, gridSize, factor)
			if err != nil {
				return fmt.Errorf("feature %q: %w", feature, err)
			}
			values[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return model.NewScoreMatrix(features, append([]string(nil), matrix.Samples...), values)
}

func essentialityRow(row []float64, fit model.FitRecord, gridSize int, factor float64) ([]float64, error) {
	out := utils.NaNs(len(row))

	observed := utils.DropNaN(row)
	if len(observed) == 0 {
		return out, nil
	}

	curve, err := NewIndexCurve(fit, floats.Min(observed), floats.Max(observed), gridSize)
	if err != nil {
		return nil, err
	}

	sign := utils.Sign(fit.Shape)
	for j, v := range row {
		if math.IsNaN(v) {
			continue
		}
		out[j] = factor * sign * curve.At(v)
	}
	return out, nil
}

func commonFeatures(matrix *model.ScoreMatrix, fits *model.FitTable) []string {
	if matrix == nil {
		return nil
	}
	res := []string{}
	for _, feature := range matrix.Features {
		if fits.Has(feature) {
			res = append(res, feature)
		}
	}
	return res
}

func validateFit(fit model.FitRecord) error {
	switch {
	case !(fit.DF > 0), !(fit.Scale > 0), math.IsInf(fit.Scale, 0),
		math.IsNaN(fit.Shape), math.IsNaN(fit.Location):
		return fmt.Errorf("%w: unusable fit %+v", common.ErrInvalidValue, fit)
	}
	return nil
}

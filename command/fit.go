package command

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/kberkey/ccal/essentiality"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/skewt"
	"github.com/kberkey/ccal/store"
	"github.com/kberkey/ccal/tableio"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type fitCommand struct{}

func (cmd *fitCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags, cf := newFlagSet(prog, stderr)
	inputFilename := flags.String("i", "", "feature x sample score matrix `file` (tsv, optionally .gz)")
	features := flags.String("features", "", "comma separated features to fit (default all)")
	outputFilename := flags.String("o", "", "output fit table `file` (default stdout unless -dir is given)")
	outputDir := flags.String("dir", "", "output `directory` for a timestamped fit table and plot data")
	plot := flags.Bool("plot", false, "write essentiality plot data for every fitted feature to -dir")
	indicatorsFilename := flags.String("indicators", "", "AMP/MUT/DEL indicator matrix `file` for plot data")
	overwrite := flags.Bool("overwrite", false, "overwrite existing output files")
	skipFailed := flags.Bool("skip-failed", cf.cfg.SkipFailed, "skip features whose fit fails instead of aborting")
	maxIterations := flags.Int("max-iterations", cf.cfg.MaxIterations, "optimizer iteration limit per feature")
	initialDF := flags.Float64("initial-df", cf.cfg.InitialDF, "starting degrees of freedom")
	gridSize := flags.Int("grid", cf.cfg.GridSize, "grid points for plot data")
	bins := flags.Int("bins", cf.cfg.HistogramBins, "histogram bins for plot data")
	dbPath := flags.String("db", cf.cfg.DBPath, "also save the fit table to this SQLite `file`")
	if ok, code := parse(flags, args); !ok {
		return code
	}
	if *inputFilename == "" {
		err = fmt.Errorf("-i is required")
		return 2
	}
	if *plot && *outputDir == "" {
		err = fmt.Errorf("-plot requires -dir")
		return 2
	}
	cf.cfg.MaxIterations, cf.cfg.InitialDF = *maxIterations, *initialDF
	cf.cfg.GridSize, cf.cfg.HistogramBins = *gridSize, *bins
	ctx, logger, err := cf.setup()
	if err != nil {
		return 2
	}
	defer logger.Sync()

	scores, err := tableio.ReadMatrix(*inputFilename)
	if err != nil {
		return 1
	}

	fitter := skewt.NewFitter(cf.cfg.InitialDF, cf.cfg.MaxIterations)
	fits, err := essentiality.FitAll(ctx, scores, splitList(*features), fitter, essentiality.FitOptions{
		Workers:    cf.cfg.Workers,
		SkipFailed: *skipFailed,
	})
	if fits == nil {
		return 1
	}
	if fits.Len() == 0 {
		err = fmt.Errorf("no feature was fitted: %w", err)
		return 1
	}
	if err != nil {
		logger.Warn("some features were not fitted", zap.Int("failed", len(multierr.Errors(err))))
		err = nil
	}

	switch {
	case *outputFilename != "":
		err = tableio.WriteFitTable(*outputFilename, fits, *overwrite)
	case *outputDir != "":
		path := filepath.Join(*outputDir, utils.Timestamp(time.Now())+"_skew_t_fit.txt")
		err = tableio.WriteFitTable(path, fits, *overwrite)
		if err == nil {
			logger.Info("saved fit table", zap.String("path", path))
		}
	default:
		err = tableio.WriteFitTableTo(stdout, fits)
	}
	if err != nil {
		return 1
	}

	if *dbPath != "" {
		var db *store.DB
		db, err = store.NewDB(*dbPath)
		if err != nil {
			return 1
		}
		defer db.Close()
		var runID string
		runID, err = db.SaveFitTable(ctx, *inputFilename, fits)
		if err != nil {
			return 1
		}
		logger.Info("saved fit run", zap.String("db", *dbPath), zap.String("run", runID))
	}

	if *plot && fits.Len() > 0 {
		var indicators *model.ScoreMatrix
		indicators, err = readOptionalMatrix(*indicatorsFilename)
		if err != nil {
			return 1
		}
		err = essentiality.DiagnoseAll(ctx, scores, indicators, fits, fits.Features(),
			essentiality.DiagnoseOptions{GridSize: cf.cfg.GridSize, Bins: cf.cfg.HistogramBins, Workers: cf.cfg.Workers},
			func(c *model.Curves) error {
				return tableio.WriteCurves(*outputDir, c, *overwrite)
			})
		if err != nil {
			return 1
		}
	}
	return 0
}

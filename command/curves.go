package command

import (
	"fmt"
	"io"

	"github.com/kberkey/ccal/essentiality"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/tableio"
)

// curvesCommand regenerates plot data from an existing fit table.
type curvesCommand struct{}

func (cmd *curvesCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags, cf := newFlagSet(prog, stderr)
	inputFilename := flags.String("i", "", "feature x sample score matrix `file`")
	fitsFilename := flags.String("fits", "", "fit table `file` written by fit")
	dbPath := flags.String("db", cf.cfg.DBPath, "load the fit table from this SQLite `file` when -fits is not given")
	runID := flags.String("run", "", "fit run `id` in -db (default latest)")
	indicatorsFilename := flags.String("indicators", "", "AMP/MUT/DEL indicator matrix `file`")
	features := flags.String("features", "", "comma separated features (default all fitted)")
	outputDir := flags.String("dir", "", "output `directory`; data goes to dir/"+tableio.PlotDir)
	gridSize := flags.Int("grid", cf.cfg.GridSize, "grid points per feature")
	bins := flags.Int("bins", cf.cfg.HistogramBins, "histogram bins")
	overwrite := flags.Bool("overwrite", false, "overwrite existing output files")
	if ok, code := parse(flags, args); !ok {
		return code
	}
	if *inputFilename == "" || *outputDir == "" {
		err = fmt.Errorf("-i and -dir are required")
		return 2
	}
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
	fits, err := loadFits(ctx, *fitsFilename, *dbPath, *runID)
	if err != nil {
		return 1
	}
	indicators, err := readOptionalMatrix(*indicatorsFilename)
	if err != nil {
		return 1
	}

	err = essentiality.DiagnoseAll(ctx, scores, indicators, fits, splitList(*features),
		essentiality.DiagnoseOptions{GridSize: cf.cfg.GridSize, Bins: cf.cfg.HistogramBins, Workers: cf.cfg.Workers},
		func(c *model.Curves) error {
			return tableio.WriteCurves(*outputDir, c, *overwrite)
		})
	if err != nil {
		return 1
	}
	return 0
}

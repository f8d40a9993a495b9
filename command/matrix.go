package command

import (
	"fmt"
	"io"

	"github.com/kberkey/ccal/essentiality"
	"github.com/kberkey/ccal/tableio"
	"go.uber.org/zap"
)

type matrixCommand struct{}

func (cmd *matrixCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	gridSize := flags.Int("grid", cf.cfg.GridSize, "grid points per feature")
	factor := flags.Float64("factor", cf.cfg.ScaleFactor, "multiply every essentiality index by this factor")
	outputFilename := flags.String("o", "-", "output matrix `file` (tsv, optionally .gz)")
	npyFilename := flags.String("npy", "", "also write the matrix as a float64 .npy `file`, with .features/.samples label files")
	overwrite := flags.Bool("overwrite", false, "overwrite existing output files")
	if ok, code := parse(flags, args); !ok {
		return code
	}
	if *inputFilename == "" {
		err = fmt.Errorf("-i is required")
		return 2
	}
	cf.cfg.GridSize, cf.cfg.ScaleFactor = *gridSize, *factor
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

	out, err := essentiality.Build(ctx, scores, fits, essentiality.BuildOptions{
		GridSize:    cf.cfg.GridSize,
		ScaleFactor: cf.cfg.ScaleFactor,
		Workers:     cf.cfg.Workers,
	})
	if err != nil {
		return 1
	}

	if *outputFilename == "-" {
		err = tableio.WriteMatrixTo(stdout, out)
	} else {
		err = tableio.WriteMatrix(*outputFilename, out, *overwrite)
	}
	if err != nil {
		return 1
	}

	if *npyFilename != "" {
		if err = tableio.WriteNpy(*npyFilename, out, *overwrite); err != nil {
			return 1
		}
		if err = tableio.WriteLabels(*npyFilename+".features", out.Features, *overwrite); err != nil {
			return 1
		}
		if err = tableio.WriteLabels(*npyFilename+".samples", out.Samples, *overwrite); err != nil {
			return 1
		}
		logger.Info("wrote npy matrix", zap.String("path", *npyFilename),
			zap.Int("rows", len(out.Features)), zap.Int("cols", len(out.Samples)))
	}
	return 0
}

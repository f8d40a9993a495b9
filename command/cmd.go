package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kberkey/ccal/config"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/store"
	"github.com/kberkey/ccal/tableio"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/zap"
)

var version = "dev"

// Handler is one subcommand. The return value is the process exit code.
type Handler interface {
	RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

type HandlerFunc func(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int

func (f HandlerFunc) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return f(prog, args, stdin, stdout, stderr)
}

// Multi dispatches on the first argument.
type Multi map[string]Handler

func (m Multi) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		m.usage(prog, stderr)
		return 2
	}
	h, ok := m[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "%s: unrecognized command %q\n", prog, args[0])
		m.usage(prog, stderr)
		return 2
	}
	return h.RunCommand(prog+" "+args[0], args[1:], stdin, stdout, stderr)
}

func (m Multi) usage(prog string, stderr io.Writer) {
	names := make([]string, 0, len(m))
	for name := range m {
		if !strings.HasPrefix(name, "-") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fmt.Fprintf(stderr, "usage: %s <command> [options]\n\ncommands:\n", prog)
	for _, name := range names {
		fmt.Fprintf(stderr, "  %s\n", name)
	}
}

var versionCommand = HandlerFunc(func(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "%s %s\n", prog, version)
	return 0
})

var handler = Multi{
	"version":   versionCommand,
	"-version":  versionCommand,
	"--version": versionCommand,

	"fit":    &fitCommand{},
	"matrix": &matrixCommand{},
	"curves": &curvesCommand{},
	"lookup": &lookupCommand{},
	"runs":   &runsCommand{},
}

func Main() {
	os.Exit(handler.RunCommand("ccal", os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// commonFlags are shared by the subcommands that run the analysis.
type commonFlags struct {
	cfg      config.Config
	logLevel *string
	workers  *int
}

func newFlagSet(prog string, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	flags := flag.NewFlagSet(prog, flag.ContinueOnError)
	flags.SetOutput(stderr)
	cf := &commonFlags{cfg: config.Load()}
	cf.logLevel = flags.String("log-level", cf.cfg.LogLevel, "log `level` (debug, info, warn, error)")
	cf.workers = flags.Int("workers", cf.cfg.Workers, "number of features processed concurrently")
	return flags, cf
}

// parse returns the exit code to use when parsing did not succeed.
func parse(flags *flag.FlagSet, args []string) (ok bool, code int) {
	err := flags.Parse(args)
	if err == flag.ErrHelp {
		return false, 0
	} else if err != nil {
		return false, 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(flags.Output(), "unexpected arguments: %q\n", flags.Args())
		return false, 2
	}
	return true, 0
}

// setup validates the effective configuration and returns a context
// carrying the command's logger.
func (cf *commonFlags) setup() (context.Context, *zap.Logger, error) {
	cf.cfg.LogLevel = *cf.logLevel
	cf.cfg.Workers = *cf.workers
	if err := config.Validate(cf.cfg); err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cf.cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return utils.WithLogger(context.Background(), logger), logger, nil
}

func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

// loadFits reads a fit table from a file, or from the fit store when path
// is empty.
func loadFits(ctx context.Context, path, dbPath, runID string) (*model.FitTable, error) {
	if path != "" {
		return tableio.ReadFitTable(path)
	}
	if dbPath == "" {
		return nil, fmt.Errorf("one of -fits or -db is required")
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.LoadFitTable(ctx, runID)
}

func readOptionalMatrix(path string) (*model.ScoreMatrix, error) {
	if path == "" {
		return nil, nil
	}
	return tableio.ReadMatrix(path)
}

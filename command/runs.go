package command

import (
	"fmt"
	"io"
	"time"

	"github.com/kberkey/ccal/store"
)

// runsCommand lists the fit runs saved in a fit store, newest first.
type runsCommand struct{}

func (cmd *runsCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags, cf := newFlagSet(prog, stderr)
	dbPath := flags.String("db", cf.cfg.DBPath, "SQLite fit store `file`")
	if ok, code := parse(flags, args); !ok {
		return code
	}
	if *dbPath == "" {
		err = fmt.Errorf("-db is required")
		return 2
	}
	ctx, logger, err := cf.setup()
	if err != nil {
		return 2
	}
	defer logger.Sync()

	db, err := store.NewDB(*dbPath)
	if err != nil {
		return 1
	}
	defer db.Close()
	runs, err := db.Runs(ctx)
	if err != nil {
		return 1
	}

	fmt.Fprintf(stdout, "id\tsource\tfeatures\tcreated_at\n")
	for _, run := range runs {
		fmt.Fprintf(stdout, "%s\t%s\t%d\t%s\n", run.ID, run.Source, run.Features, run.CreatedAt.Format(time.RFC3339))
	}
	return 0
}

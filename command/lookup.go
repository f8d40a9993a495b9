package command

import (
	"fmt"
	"io"

	"github.com/kberkey/ccal/essentiality"
	"github.com/kberkey/ccal/tableio"
)

// lookupCommand prints the AMP/MUT/DEL rows of one gene.
type lookupCommand struct{}

func (cmd *lookupCommand) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags, cf := newFlagSet(prog, stderr)
	indicatorsFilename := flags.String("indicators", "", "AMP/MUT/DEL indicator matrix `file`")
	gene := flags.String("gene", "", "gene `name`")
	if ok, code := parse(flags, args); !ok {
		return code
	}
	if *indicatorsFilename == "" || *gene == "" {
		err = fmt.Errorf("-indicators and -gene are required")
		return 2
	}
	ctx, logger, err := cf.setup()
	if err != nil {
		return 2
	}
	defer logger.Sync()

	indicators, err := tableio.ReadMatrix(*indicatorsFilename)
	if err != nil {
		return 1
	}
	err = tableio.WriteMatrixTo(stdout, essentiality.LookupAmpMutDel(ctx, indicators, *gene))
	if err != nil {
		return 1
	}
	return 0
}

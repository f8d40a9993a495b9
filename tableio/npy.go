package tableio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kberkey/ccal/model"
	"github.com/kshedden/gonpy"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// WriteNpy writes the matrix values as a row-major float64 .npy array of
// shape (features, samples). Row and column labels are not stored; write
// them with WriteLabels.
func WriteNpy(path string, m *model.ScoreMatrix, overwrite bool) error {
	f, err := CreateFile(path, overwrite)
	if err != nil {
		return err
	}
	defer f.Close()

	bufw := bufio.NewWriter(f)
	if err := WriteNpyTo(bufw, m); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func WriteNpyTo(w io.Writer, m *model.ScoreMatrix) error {
	rows, cols := len(m.Features), len(m.Samples)
	out := make([]float64, 0, rows*cols)
	for _, row := range m.Values {
		out = append(out, row...)
	}

	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return fmt.Errorf("gonpy.NewWriter: %w", err)
	}
	npw.Shape = []int{rows, cols}
	return npw.WriteFloat64(out)
}

// WriteLabels writes one label per line, e.g. the feature ids that go with
// a .npy matrix.
func WriteLabels(path string, labels []string, overwrite bool) error {
	return withWriter(path, overwrite, func(w io.Writer) error {
		for _, label := range labels {
			if _, err := fmt.Fprintln(w, label); err != nil {
				return err
			}
		}
		return nil
	})
}

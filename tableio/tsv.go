package tableio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kberkey/ccal/common"
	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
	"github.com/klauspost/pgzip"
)

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

var fitColumns = []string{"N", "DF", "Shape", "Location", "Scale"}

func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if missingTokens[s] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadMatrix reads a tab-delimited feature x sample matrix. Paths ending in
// .gz are decompressed.
func ReadMatrix(path string) (*model.ScoreMatrix, error) {
	var m *model.ScoreMatrix
	err := withReader(path, func(r io.Reader) error {
		var err error
		m, err = ReadMatrixFrom(r)
		return err
	})
	return m, err
}

// ReadMatrixFrom reads a header row of sample ids (its first cell names the
// index column and is ignored) followed by one row per feature.
func ReadMatrixFrom(r io.Reader) (*model.ScoreMatrix, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty table", common.ErrInvalidValue)
	}

	samples := append([]string(nil), records[0][1:]...)
	features := make([]string, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != len(samples)+1 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d",
				common.ErrInvalidValue, line+2, len(record), len(samples)+1)
		}
		row := make([]float64, len(samples))
		for j, field := range record[1:] {
			row[j], err = ParseValue(field)
			if err != nil {
				return nil, fmt.Errorf("line %d, sample %q: %w", line+2, samples[j], err)
			}
		}
		features = append(features, record[0])
		values = append(values, row)
	}
	return model.NewScoreMatrix(features, samples, values)
}

func WriteMatrix(path string, m *model.ScoreMatrix, overwrite bool) error {
	return withWriter(path, overwrite, func(w io.Writer) error {
		return WriteMatrixTo(w, m)
	})
}

func WriteMatrixTo(w io.Writer, m *model.ScoreMatrix) error {
	cw := newWriter(w)
	cw.Write(append([]string{""}, m.Samples...))
	record := make([]string, len(m.Samples)+1)
	for i, feature := range m.Features {
		record[0] = feature
		for j, v := range m.Values[i] {
			record[j+1] = utils.FormatValue(v)
		}
		cw.Write(record)
	}
	cw.Flush()
	return cw.Error()
}

func ReadFitTable(path string) (*model.FitTable, error) {
	var t *model.FitTable
	err := withReader(path, func(r io.Reader) error {
		var err error
		t, err = ReadFitTableFrom(r)
		return err
	})
	return t, err
}

// ReadFitTableFrom reads the N, DF, Shape, Location and Scale columns by
// header name; row order is kept.
func ReadFitTableFrom(r io.Reader) (*model.FitTable, error) {
	m, err := ReadMatrixFrom(r)
	if err != nil {
		return nil, err
	}
	cols := make([]int, len(fitColumns))
	for i, name := range fitColumns {
		cols[i] = -1
		for j, sample := range m.Samples {
			if sample == name {
				cols[i] = j
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: fit table has no %s column", common.ErrInvalidValue, name)
		}
	}

	fits := make([]model.FeatureFit, len(m.Features))
	for i, feature := range m.Features {
		row := m.Values[i]
		n := row[cols[0]]
		if math.IsNaN(n) {
			return nil, fmt.Errorf("%w: feature %q has no N", common.ErrInvalidValue, feature)
		}
		fits[i] = model.FeatureFit{
			Feature: feature,
			FitRecord: model.FitRecord{
				N:        int(n),
				DF:       row[cols[1]],
				Shape:    row[cols[2]],
				Location: row[cols[3]],
				Scale:    row[cols[4]],
			},
		}
	}
	return model.NewFitTable(fits)
}

func WriteFitTable(path string, t *model.FitTable, overwrite bool) error {
	return withWriter(path, overwrite, func(w io.Writer) error {
		return WriteFitTableTo(w, t)
	})
}

func WriteFitTableTo(w io.Writer, t *model.FitTable) error {
	cw := newWriter(w)
	cw.Write(append([]string{""}, fitColumns...))
	for _, fit := range t.Fits {
		cw.Write([]string{
			fit.Feature,
			strconv.Itoa(fit.N),
			utils.FormatValue(fit.DF),
			utils.FormatValue(fit.Shape),
			utils.FormatValue(fit.Location),
			utils.FormatValue(fit.Scale),
		})
	}
	cw.Flush()
	return cw.Error()
}

// CreateFile creates path and its parent directories. An existing path is
// an error unless overwrite is set.
func CreateFile(path string, overwrite bool) (*os.File, error) {
	if !overwrite {
		if err := checkAbsent(path); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// checkAbsent returns common.ErrOverwrite for each path that exists.
func checkAbsent(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", common.ErrOverwrite, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comment = '#'
	return cr
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

func withReader(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReaderSize(f, 4*1024*1024)
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	if err := fn(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func withWriter(path string, overwrite bool, fn func(io.Writer) error) error {
	f, err := CreateFile(path, overwrite)
	if err != nil {
		return err
	}
	defer f.Close()

	bufw := bufio.NewWriter(f)
	var w io.Writer = bufw
	var gz *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = pgzip.NewWriter(bufw)
		w = gz
	}
	if err := fn(w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

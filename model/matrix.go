package model

import (
	"fmt"

	"github.com/kberkey/ccal/common"
)

// ScoreMatrix is a feature x sample table. Missing values are NaN.
type ScoreMatrix struct {
	Features []string
	Samples  []string
	Values   [][]float64

	index map[string]int
}

func NewScoreMatrix(features, samples []string, values [][]float64) (*ScoreMatrix, error) {
	if len(features) != len(values) {
		return nil, fmt.Errorf("%w: %d features but %d rows", common.ErrInvalidValue, len(features), len(values))
	}
	index := make(map[string]int, len(features))
	for i, feature := range features {
		if _, dup := index[feature]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", common.ErrInvalidValue, feature)
		}
		if len(values[i]) != len(samples) {
			return nil, fmt.Errorf("%w: row %q has %d values, want %d",
				common.ErrInvalidValue, feature, len(values[i]), len(samples))
		}
		index[feature] = i
	}
	return &ScoreMatrix{
		Features: features,
		Samples:  samples,
		Values:   values,
		index:    index,
	}, nil
}

func (m *ScoreMatrix) Index(feature string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[feature]
	return i, ok
}

func (m *ScoreMatrix) Has(feature string) bool {
	_, ok := m.Index(feature)
	return ok
}

// Row returns the stored slice for feature; callers must not modify it.
func (m *ScoreMatrix) Row(feature string) ([]float64, bool) {
	i, ok := m.Index(feature)
	if !ok {
		return nil, false
	}
	return m.Values[i], true
}

func (m *ScoreMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Features)
}

func (m *ScoreMatrix) IsEmpty() bool {
	return m.Len() == 0
}

func (m *ScoreMatrix) DebugString() string {
	if m == nil {
		return "features: 0, samples: 0"
	}
	return fmt.Sprintf("features: %v, samples: %v", len(m.Features), len(m.Samples))
}

package model

import (
	"fmt"
	"sort"

	"github.com/kberkey/ccal/common"
)

// FitRecord holds the skew-t parameters of one feature. N is the number of
// non-missing observations the fit used.
type FitRecord struct {
	N        int     `json:"n"`
	DF       float64 `json:"df"`
	Shape    float64 `json:"shape"`
	Location float64 `json:"location"`
	Scale    float64 `json:"scale"`
}

type FeatureFit struct {
	Feature string
	FitRecord
}

type FitTable struct {
	Fits []FeatureFit

	index map[string]int
}

func NewFitTable(fits []FeatureFit) (*FitTable, error) {
	t := &FitTable{Fits: fits}
	if err := t.reindex(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *FitTable) reindex() error {
	t.index = make(map[string]int, len(t.Fits))
	for i, fit := range t.Fits {
		if _, dup := t.index[fit.Feature]; dup {
			return fmt.Errorf("%w: duplicate feature %q", common.ErrInvalidValue, fit.Feature)
		}
		t.index[fit.Feature] = i
	}
	return nil
}

func (t *FitTable) Get(feature string) (FitRecord, bool) {
	if t == nil {
		return FitRecord{}, false
	}
	i, ok := t.index[feature]
	if !ok {
		return FitRecord{}, false
	}
	return t.Fits[i].FitRecord, true
}

func (t *FitTable) Has(feature string) bool {
	_, ok := t.Get(feature)
	return ok
}

func (t *FitTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Fits)
}

func (t *FitTable) Features() []string {
	res := make([]string, 0, t.Len())
	for _, fit := range t.Fits {
		res = append(res, fit.Feature)
	}
	return res
}

// SortByShape orders fits by Shape ascending. Equal shapes keep their
// current relative order.
func (t *FitTable) SortByShape() {
	sort.SliceStable(t.Fits, func(i, j int) bool {
		return t.Fits[i].Shape < t.Fits[j].Shape
	})
	// reindex cannot fail here, features were unique before sorting
	_ = t.reindex()
}

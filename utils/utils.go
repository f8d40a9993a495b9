package utils

import (
	"math"
	"strconv"
	"time"
)

// Sign follows numpy: -1, 0 or 1, and NaN for NaN.
func Sign(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return f
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// DropNaN returns the non-missing values of data in their original order.
func DropNaN(data []float64) []float64 {
	res := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res
}

func NaNs(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = math.NaN()
	}
	return res
}

// FormatValue renders a table cell; missing values become "NaN".
func FormatValue(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Timestamp is used to prefix output file names, e.g. 2016-09-01_12-30-05.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}

package model

type Density struct {
	X     float64
	Value float64
}

type Histogram struct {
	// Dividers has len(Counts)+1 bin edges.
	Dividers []float64
	Counts   []float64
}

func (h *Histogram) MaxCount() float64 {
	res := 0.0
	for _, c := range h.Counts {
		if c > res {
			res = c
		}
	}
	return res
}

// Curves is everything an external renderer needs to draw the essentiality
// figure of one feature. All curve slices are aligned with Grid.
type Curves struct {
	Feature string
	Fit     FitRecord

	Histogram   Histogram
	ScaleFactor float64 // applied to PDF and ReflectedPDF

	Grid             []float64
	PDF              []float64
	ReflectedPDF     []float64
	EssentialityIdx  []float64
	EmpiricalDensity []float64

	// Rug rows: indicator * score per sample, NaN where the indicator is
	// missing. Keyed by the indicator row name, columns follow Samples.
	Samples        []string
	IndicatorNames []string
	Rugs           [][]float64
}

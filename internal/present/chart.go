package present

import (
	"github.com/hermecp/mapacuestionario/internal/analysis"
)

// Series is chart-ready frequency data: one category per bar, counts on the
// value axis, percentages as annotations.
type Series struct {
	Title       string    `json:"title"`
	YLabel      string    `json:"y_label"`
	Labels      []string  `json:"labels"`
	Counts      []int     `json:"counts"`
	Percentages []float64 `json:"percentages"`
	Colors      []string  `json:"colors"`
}

// Len returns the number of categories.
func (s Series) Len() int {
	return len(s.Labels)
}

// MaxCount returns the largest count, or 0 for an empty series.
func (s Series) MaxCount() int {
	m := 0
	for _, c := range s.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// ChartSeries builds the bar chart series for column. Bars take Colorblind
// palette colors in frequency-row order.
func ChartSeries(column string, freq []analysis.FrequencyRow) Series {
	s := Series{
		Title:       "Distribución de respuestas: " + column,
		YLabel:      "Número de viviendas",
		Labels:      make([]string, len(freq)),
		Counts:      make([]int, len(freq)),
		Percentages: make([]float64, len(freq)),
		Colors:      make([]string, len(freq)),
	}
	for i, f := range freq {
		s.Labels[i] = f.Value
		s.Counts[i] = f.Count
		s.Percentages[i] = f.Percentage
		s.Colors[i] = analysis.Colorblind.At(i)
	}
	return s
}

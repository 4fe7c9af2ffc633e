// Package analysis groups normalized answers of one question column into
// frequencies and assigns each distinct answer a display color.
package analysis

import (
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// Palette is an ordered list of hex colors.
type Palette []string

// Tab20 is the 20-color categorical palette used for map markers.
var Tab20 = Palette{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Colorblind is the 10-color palette used for chart bars.
var Colorblind = Palette{
	"#0173b2", "#de8f05", "#029e73", "#d55e00", "#cc78bc",
	"#ca9161", "#fbafe4", "#949494", "#ece133", "#56b4e9",
}

// DefaultFallbackColor is returned for values with no assignment.
const DefaultFallbackColor = "gray"

// At returns the color for position i. Positions past the end wrap around
// (PaletteWrap): value 21 of Tab20 reuses the first color.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return DefaultFallbackColor
	}
	return p[i%len(p)]
}

// ColorAssignment maps each distinct normalized value to one color.
type ColorAssignment struct {
	Values   []string          `json:"values"`
	Colors   map[string]string `json:"colors"`
	Fallback string            `json:"fallback"`
}

// Lookup returns the color for value, or the fallback when it was never assigned.
func (a ColorAssignment) Lookup(value string) string {
	if c, ok := a.Colors[value]; ok {
		return c
	}
	return a.Fallback
}

// Len returns the number of assigned values.
func (a ColorAssignment) Len() int {
	return len(a.Values)
}

// AssignColors gives values[i] the palette color at position i. Duplicate
// values keep their first color. An empty fallback means DefaultFallbackColor.
func AssignColors(values []string, palette Palette, fallback string) ColorAssignment {
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	a := ColorAssignment{
		Values:   make([]string, 0, len(values)),
		Colors:   make(map[string]string, len(values)),
		Fallback: fallback,
	}
	for _, v := range values {
		if _, ok := a.Colors[v]; ok {
			continue
		}
		a.Colors[v] = palette.At(len(a.Values))
		a.Values = append(a.Values, v)
	}
	return a
}

// DistinctInOrder returns the distinct normalized values of column in the
// order they first occur in rows. Null values are skipped.
func DistinctInOrder(rows []survey.Row, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		raw, ok := r.Value(column)
		if !ok {
			continue
		}
		v := survey.Normalize(raw)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ColorsFor assigns Tab20 colors to the values of column in first-occurrence order.
func ColorsFor(rows []survey.Row, column string, fallback string) ColorAssignment {
	return AssignColors(DistinctInOrder(rows, column), Tab20, fallback)
}

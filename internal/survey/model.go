// Package survey loads geolocated questionnaire responses and exposes them as
// an immutable, schema-classified row set.
package survey

import (
	"time"
)

// ColumnKind is the value classification of a column, fixed at load time.
type ColumnKind string

const (
	// KindCategorical marks a column holding at least one text answer.
	KindCategorical ColumnKind = "categorical"
	// KindNumeric marks a column whose non-empty cells are all numeric.
	KindNumeric ColumnKind = "numeric"
	// KindEmpty marks a column with no non-empty cells.
	KindEmpty ColumnKind = "empty"
)

// Column describes one question column of the survey sheet.
type Column struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	Excluded bool       `json:"excluded"`
	NonNull  int        `json:"non_null"`
}

// Selectable reports whether the column can be offered as a question.
func (c Column) Selectable() bool {
	return c.Kind == KindCategorical && !c.Excluded
}

// Schema is the ordered column list of a loaded sheet.
type Schema struct {
	Columns []Column `json:"columns"`
	index   map[string]int
}

// NewSchema builds a schema over the given columns.
func NewSchema(cols []Column) Schema {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return Schema{Columns: cols, index: idx}
}

// Column returns the named column.
func (s Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Names returns every column name in sheet order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Row is one respondent record with valid coordinates. A column missing from
// Answers is null for that respondent.
type Row struct {
	Answers   map[string]string
	Latitude  float64
	Longitude float64
}

// Value returns the raw answer for column and whether it is non-null.
func (r Row) Value(column string) (string, bool) {
	v, ok := r.Answers[column]
	return v, ok
}

// Dataset is a loaded survey. It is never mutated after Load returns.
type Dataset struct {
	Schema   Schema
	Rows     []Row
	Source   string
	Sheet    string
	Dropped  int
	LoadedAt time.Time
}

// SelectableColumns returns the question columns a user may choose, in sheet order.
func (d *Dataset) SelectableColumns() []string {
	var out []string
	for _, c := range d.Schema.Columns {
		if c.Selectable() {
			out = append(out, c.Name)
		}
	}
	return out
}

// IsSelectable reports whether column is a selectable question.
func (d *Dataset) IsSelectable(column string) bool {
	c, ok := d.Schema.Column(column)
	return ok && c.Selectable()
}

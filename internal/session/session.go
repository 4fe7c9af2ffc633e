// Package session holds per-user survey sessions. A Session owns one loaded
// dataset and computes a fresh View for every column selection; nothing is
// cached between selections.
package session

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/analysis"
	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// ErrUnknownColumn is returned when a selection names a column that is not
// selectable in the session's dataset.
var ErrUnknownColumn = eris.New("session: unknown or non-selectable column")

// Options control how selections are computed.
type Options struct {
	Order    analysis.Order
	Fallback string          // color for values outside the assignment
	Map      present.MapView // viewport used when a selection has no points
}

// Session is one user's loaded survey.
type Session struct {
	ID        string
	Dataset   *survey.Dataset
	CreatedAt time.Time

	opts Options
}

// New creates a session over ds.
func New(id string, ds *survey.Dataset, opts Options) *Session {
	if opts.Order == "" {
		opts.Order = analysis.OrderByLabel
	}
	if opts.Fallback == "" {
		opts.Fallback = analysis.DefaultFallbackColor
	}
	return &Session{ID: id, Dataset: ds, CreatedAt: time.Now(), opts: opts}
}

// Columns returns the selectable columns in sheet order.
func (s *Session) Columns() []string {
	return s.Dataset.SelectableColumns()
}

// View is everything the page and the exports need for one selection.
type View struct {
	Column      string                   `json:"column"`
	Colors      analysis.ColorAssignment `json:"colors"`
	Frequencies []analysis.FrequencyRow  `json:"frequencies"`
	Points      []present.MapPoint       `json:"-"`
	Series      present.Series           `json:"-"`
	Map         present.MapView          `json:"map"`
	Total       int                      `json:"total"`
	TotalPct    float64                  `json:"total_percentage"`
}

// Select computes the view for column.
func (s *Session) Select(column string) (*View, error) {
	if !s.Dataset.IsSelectable(column) {
		return nil, eris.Wrapf(ErrUnknownColumn, "column %q", column)
	}

	rows := s.Dataset.Rows
	colors := analysis.ColorsFor(rows, column, s.opts.Fallback)
	freq := analysis.Aggregate(rows, column, s.opts.Order)
	points := present.MapPoints(rows, column, colors)
	total, pct := analysis.Totals(freq)

	return &View{
		Column:      column,
		Colors:      colors,
		Frequencies: freq,
		Points:      points,
		Series:      present.ChartSeries(column, freq),
		Map:         present.Viewport(points, s.opts.Map),
		Total:       total,
		TotalPct:    pct,
	}, nil
}

// ExportInput packages the view for present.Exporter.
func (v *View) ExportInput() present.ExportInput {
	return present.ExportInput{Column: v.Column, Frequencies: v.Frequencies, Points: v.Points}
}

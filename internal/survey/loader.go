package survey

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hermecp/mapacuestionario/internal/fetcher"
)

// Default coordinate columns written by KoboToolbox geopoint questions.
const (
	DefaultLatitudeColumn  = "_start-geopoint_latitude"
	DefaultLongitudeColumn = "_start-geopoint_longitude"
)

// LoaderConfig configures how a survey workbook becomes a Dataset.
type LoaderConfig struct {
	Source          fetcher.Source
	SheetIndex      int
	LatitudeColumn  string
	LongitudeColumn string
	ExcludedColumns []string
	MaxBytes        int64
}

func (c LoaderConfig) withDefaults() LoaderConfig {
	if c.LatitudeColumn == "" {
		c.LatitudeColumn = DefaultLatitudeColumn
	}
	if c.LongitudeColumn == "" {
		c.LongitudeColumn = DefaultLongitudeColumn
	}
	return c
}

// SourceOpener opens a workbook body. *fetcher.Opener implements it.
type SourceOpener interface {
	Open(ctx context.Context, src fetcher.Source) (io.ReadCloser, error)
}

// Loader reads one survey workbook into an immutable Dataset.
type Loader struct {
	opener SourceOpener
	cfg    LoaderConfig
	now    func() time.Time
}

// NewLoader creates a Loader for the configured source.
func NewLoader(opener SourceOpener, cfg LoaderConfig) *Loader {
	return &Loader{opener: opener, cfg: cfg.withDefaults(), now: time.Now}
}

// Load fetches and decodes the workbook. Every failure is a *LoadError; the
// source body is released before Load returns.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	start := l.now()

	body, err := l.opener.Open(ctx, l.cfg.Source)
	if err != nil {
		return nil, NewSourceError(eris.Wrapf(err, "survey: open %s", l.cfg.Source))
	}
	defer body.Close() //nolint:errcheck

	sheet, err := fetcher.ReadXLSX(body, fetcher.XLSXOptions{
		SheetIndex: l.cfg.SheetIndex,
		MaxBytes:   l.cfg.MaxBytes,
	})
	if err != nil {
		return nil, NewFormatError(eris.Wrap(err, "survey: read workbook"))
	}

	ds, err := BuildDataset(sheet, l.cfg)
	if err != nil {
		return nil, err
	}
	ds.Source = l.cfg.Source.String()
	ds.LoadedAt = l.now()

	zap.L().Info("survey: dataset loaded",
		zap.String("source", ds.Source),
		zap.String("sheet", ds.Sheet),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("dropped", ds.Dropped),
		zap.Int("columns", len(ds.Schema.Columns)),
		zap.Int("selectable", len(ds.SelectableColumns())),
		zap.Duration("elapsed", ds.LoadedAt.Sub(start)),
	)

	return ds, nil
}

// BuildDataset turns a decoded sheet (header row first) into a Dataset.
// Rows with an empty coordinate are dropped; a coordinate that is present but
// not numeric fails the whole build.
func BuildDataset(sheet *fetcher.Sheet, cfg LoaderConfig) (*Dataset, error) {
	cfg = cfg.withDefaults()

	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, NewFormatError(eris.New("survey: sheet has no header row"))
	}

	header := headerNames(sheet.Rows[0])
	latIdx, lonIdx := indexOf(header, cfg.LatitudeColumn), indexOf(header, cfg.LongitudeColumn)
	if latIdx < 0 || lonIdx < 0 {
		var missing []string
		if latIdx < 0 {
			missing = append(missing, cfg.LatitudeColumn)
		}
		if lonIdx < 0 {
			missing = append(missing, cfg.LongitudeColumn)
		}
		return nil, NewFormatError(eris.Errorf("survey: sheet %q is missing coordinate columns %q", sheet.Name, missing))
	}

	excluded := excludedSet(cfg)
	stats := make([]columnStats, len(header))

	ds := &Dataset{Sheet: sheet.Name}
	for i, cells := range sheet.Rows[1:] {
		excelRow := i + 2

		for j := range header {
			if j < len(cells) && !cells[j].Empty() {
				stats[j].observe(cells[j])
			}
		}

		if blank(cells, latIdx) || blank(cells, lonIdx) {
			ds.Dropped++
			continue
		}
		lat, err := coordinate(cells[latIdx])
		if err != nil {
			return nil, NewFormatError(eris.Wrapf(err, "survey: row %d column %q", excelRow, cfg.LatitudeColumn))
		}
		lon, err := coordinate(cells[lonIdx])
		if err != nil {
			return nil, NewFormatError(eris.Wrapf(err, "survey: row %d column %q", excelRow, cfg.LongitudeColumn))
		}

		row := Row{Answers: make(map[string]string), Latitude: lat, Longitude: lon}
		for j, name := range header {
			if j < len(cells) && !cells[j].Empty() {
				row.Answers[name] = cells[j].Text
				stats[j].nonNull++
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = Column{
			Name:     name,
			Kind:     stats[j].kind(),
			Excluded: excluded[strings.TrimSpace(name)],
			NonNull:  stats[j].nonNull,
		}
	}
	ds.Schema = NewSchema(cols)

	if ds.Dropped > 0 {
		zap.L().Debug("survey: dropped rows without coordinates", zap.Int("dropped", ds.Dropped))
	}

	return ds, nil
}

// columnStats accumulates the classification of one column. Kind is decided
// over every data row; nonNull counts only rows kept in the dataset.
type columnStats struct {
	seen    int
	text    bool
	nonNull int
}

func (s *columnStats) observe(c fetcher.Cell) {
	s.seen++
	if !c.Numeric {
		s.text = true
	}
}

func (s columnStats) kind() ColumnKind {
	switch {
	case s.seen == 0:
		return KindEmpty
	case s.text:
		return KindCategorical
	default:
		return KindNumeric
	}
}

func blank(cells []fetcher.Cell, idx int) bool {
	return idx >= len(cells) || cells[idx].Empty()
}

// coordinate parses a non-empty cell as a finite float.
func coordinate(c fetcher.Cell) (float64, error) {
	raw := strings.TrimSpace(c.Raw)
	if raw == "" {
		raw = strings.TrimSpace(c.Text)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Errorf("cannot convert %q to float", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("coordinate %q is not finite", raw)
	}
	return v, nil
}

// headerNames names every header cell, filling blanks with "Unnamed: N" and
// suffixing repeats with ".1", ".2", ... so every column name is unique.
func headerNames(cells []fetcher.Cell) []string {
	names := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	for i, c := range cells {
		name := c.Text
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

func excludedSet(cfg LoaderConfig) map[string]bool {
	set := make(map[string]bool, len(cfg.ExcludedColumns)+2)
	for _, c := range cfg.ExcludedColumns {
		set[strings.TrimSpace(c)] = true
	}
	set[strings.TrimSpace(cfg.LatitudeColumn)] = true
	set[strings.TrimSpace(cfg.LongitudeColumn)] = true
	return set
}

package fetcher

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// DefaultMaxWorkbookBytes caps how much of a workbook body is buffered.
const DefaultMaxWorkbookBytes = 64 << 20

// XLSXOptions configures the XLSX sheet reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	MaxBytes   int64  // default DefaultMaxWorkbookBytes
}

// Cell is one decoded spreadsheet cell.
type Cell struct {
	Text    string // display text
	Raw     string // stored value, unformatted
	Numeric bool   // stored as a number or date
}

// Empty reports whether the cell carries no value. Whitespace is a value.
func (c Cell) Empty() bool {
	return c.Raw == "" && c.Text == ""
}

// Sheet is a decoded worksheet: all rows, header row included.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// ReadXLSX buffers the workbook body and decodes the selected sheet.
func ReadXLSX(r io.Reader, opts XLSXOptions) (*Sheet, error) {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxWorkbookBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: read body")
	}
	if int64(len(data)) > limit {
		return nil, eris.Errorf("xlsx: workbook exceeds %d bytes", limit)
	}

	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	out := &Sheet{Name: sheet.Name, Rows: make([][]Cell, 0, len(sheet.Rows))}
	for _, row := range sheet.Rows {
		out.Rows = append(out.Rows, decodeRow(row))
	}
	return out, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func decodeRow(row *xlsx.Row) []Cell {
	if row == nil {
		return nil
	}
	cells := make([]Cell, len(row.Cells))
	for j, c := range row.Cells {
		if c == nil {
			continue
		}
		t := c.Type()
		cells[j] = Cell{
			Text:    c.String(),
			Raw:     c.Value,
			Numeric: t == xlsx.CellTypeNumeric || t == xlsx.CellTypeDate,
		}
	}
	return cells
}

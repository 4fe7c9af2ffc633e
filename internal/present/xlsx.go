package present

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/hermecp/mapacuestionario/internal/analysis"
)

// WriteXLSX writes the frequency table as a one-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(w io.Writer, freq []analysis.FrequencyRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Frecuencia")
	if err != nil {
		return eris.Wrap(err, "present: add xlsx sheet")
	}

	head := sheet.AddRow()
	for _, h := range CSVHeader {
		head.AddCell().SetString(h)
	}
	for _, r := range freq {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Value)
		row.AddCell().SetInt(r.Count)
		row.AddCell().SetFloatWithFormat(r.Percentage, "0.0")
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "present: write xlsx")
	}
	return nil
}

package present

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/analysis"
)

// CSVHeader is the header row of the frequency table export.
var CSVHeader = []string{"Respuesta", "Frecuencia", "Porcentaje (%)"}

// WriteCSV writes the frequency table as UTF-8 CSV: integer counts and
// one-decimal percentages.
func WriteCSV(w io.Writer, freq []analysis.FrequencyRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return eris.Wrap(err, "present: write csv header")
	}
	for _, f := range freq {
		rec := []string{
			f.Value,
			strconv.Itoa(f.Count),
			strconv.FormatFloat(f.Percentage, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "present: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "present: flush csv")
	}
	return nil
}

// ParseCSV reads a table written by WriteCSV.
func ParseCSV(r io.Reader) ([]analysis.FrequencyRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	head, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "present: read csv header")
	}
	for i, h := range head {
		if strings.TrimPrefix(h, "\ufeff") != CSVHeader[i] {
			return nil, eris.Errorf("present: unexpected csv header %q", head)
		}
	}

	var out []analysis.FrequencyRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "present: read csv row")
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, eris.Wrapf(err, "present: line %d: count", line)
		}
		pct, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "present: line %d: percentage", line)
		}
		out = append(out, analysis.FrequencyRow{Value: rec[0], Count: count, Percentage: pct})
	}
	return out, nil
}

package present

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/hermecp/mapacuestionario/internal/analysis"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []analysis.FrequencyRow{
		{Value: "no", Count: 1, Percentage: 33.3},
		{Value: "si", Count: 2, Percentage: 66.7},
	}))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "Frecuencia", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Respuesta", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Porcentaje (%)", sheet.Rows[0].Cells[2].Value)
	assert.Equal(t, "si", sheet.Rows[2].Cells[0].Value)

	count, err := sheet.Rows[2].Cells[1].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pct, err := sheet.Rows[2].Cells[2].Float()
	require.NoError(t, err)
	assert.InDelta(t, 66.7, pct, 1e-9)
}

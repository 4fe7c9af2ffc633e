package present

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermecp/mapacuestionario/internal/analysis"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []analysis.FrequencyRow{
		{Value: "no", Count: 1, Percentage: 33.3},
		{Value: "si", Count: 2, Percentage: 66.7},
		{Value: "pozo, pipa", Count: 10, Percentage: 100},
	}))

	want := "Respuesta,Frecuencia,Porcentaje (%)\n" +
		"no,1,33.3\n" +
		"si,2,66.7\n" +
		"\"pozo, pipa\",10,100.0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Respuesta,Frecuencia,Porcentaje (%)\n", buf.String())
}

func TestCSV_RoundTrip(t *testing.T) {
	rows := analysis.Aggregate(scenario(), "colA", analysis.OrderByLabel)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	got, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestCSV_RoundTripMultiLineAnswers(t *testing.T) {
	rows := []survey.Row{
		surveyRow("colA", "Pozo\r\nRed", 17.0, -96.7),
		surveyRow("colA", "pozo\nred", 17.1, -96.8),
		surveyRow("colA", "Pipa\rTinaco", 17.2, -96.9),
		surveyRow("colA", "   ", 17.3, -96.9),
	}
	freq := analysis.Aggregate(rows, "colA", analysis.OrderByLabel)
	require.Len(t, freq, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, freq))

	got, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, freq, got)
}

func TestParseCSV_BOMHeader(t *testing.T) {
	got, err := ParseCSV(strings.NewReader("\ufeffRespuesta,Frecuencia,Porcentaje (%)\nsi,2,66.7\n"))
	require.NoError(t, err)
	assert.Equal(t, []analysis.FrequencyRow{{Value: "si", Count: 2, Percentage: 66.7}}, got)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"wrong header", "Answer,Count,Pct\n", "unexpected csv header"},
		{"bad count", "Respuesta,Frecuencia,Porcentaje (%)\nsi,dos,66.7\n", "line 2: count"},
		{"bad percentage", "Respuesta,Frecuencia,Porcentaje (%)\nsi,2,x\n", "line 2: percentage"},
		{"short row", "Respuesta,Frecuencia,Porcentaje (%)\nsi,2\n", "read csv row"},
		{"empty", "", "read csv header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

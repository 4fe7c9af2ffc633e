package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermecp/mapacuestionario/internal/survey"
)

func row(col, val string, lat, lon float64) survey.Row {
	r := survey.Row{Answers: map[string]string{}, Latitude: lat, Longitude: lon}
	if col != "" {
		r.Answers[col] = val
	}
	return r
}

func scenarioRows() []survey.Row {
	return []survey.Row{
		row("colA", "Sí", 17.0, -96.7),
		row("colA", "sí ", 17.1, -96.8),
		row("colA", "No", 17.2, -96.9),
	}
}

func TestAggregate_Scenario(t *testing.T) {
	got := Aggregate(scenarioRows(), "colA", OrderByLabel)
	assert.Equal(t, []FrequencyRow{
		{Value: "no", Count: 1, Percentage: 33.3},
		{Value: "si", Count: 2, Percentage: 66.7},
	}, got)
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	got := Aggregate(scenarioRows(), "colA", OrderFirstSeen)
	require.Len(t, got, 2)
	assert.Equal(t, "si", got[0].Value)
	assert.Equal(t, "no", got[1].Value)
}

func TestAggregate_SkipsNulls(t *testing.T) {
	rows := append(scenarioRows(), row("", "", 17.3, -96.6), row("otra", "x", 17.4, -96.6))
	got := Aggregate(rows, "colA", OrderByLabel)

	total, _ := Totals(got)
	assert.Equal(t, 3, total)
}

func TestAggregate_EmptyColumn(t *testing.T) {
	got := Aggregate(scenarioRows(), "sin respuestas", OrderByLabel)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_CountSumMatchesNonNull(t *testing.T) {
	values := []string{"Pozo", "pozo ", "Red pública", "RED PUBLICA", "Pipa", "", "Río"}
	var rows []survey.Row
	for i := 0; i < 50; i++ {
		if i%7 == 3 {
			rows = append(rows, row("", "", 0, 0))
			continue
		}
		rows = append(rows, row("fuente", values[i%len(values)], 0, 0))
	}
	nonNull := 0
	for _, r := range rows {
		if _, ok := r.Value("fuente"); ok {
			nonNull++
		}
	}

	for _, order := range []Order{OrderByLabel, OrderFirstSeen} {
		got := Aggregate(rows, "fuente", order)
		total, pct := Totals(got)
		assert.Equal(t, nonNull, total)
		assert.InDelta(t, 100.0, pct, 0.5)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := scenarioRows()
	first := Aggregate(rows, "colA", OrderByLabel)
	second := Aggregate(rows, "colA", OrderByLabel)
	assert.Equal(t, first, second)
}

func TestAggregate_LabelOrderIsBytewise(t *testing.T) {
	rows := []survey.Row{row("q", "b", 0, 0), row("q", "B2", 0, 0), row("q", "a", 0, 0), row("q", "10", 0, 0), row("q", "9", 0, 0)}
	got := Aggregate(rows, "q", OrderByLabel)
	var labels []string
	for _, r := range got {
		labels = append(labels, r.Value)
	}
	assert.Equal(t, []string{"10", "9", "a", "b", "b2"}, labels)
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{66.666, 66.7},
		{33.333, 33.3},
		{12.25, 12.3},
		{0.04, 0},
		{100, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.InDelta(t, tt.want, Round1(tt.in), 1e-9)
		})
	}
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderByLabel, o)

	o, err = ParseOrder("first_seen")
	require.NoError(t, err)
	assert.Equal(t, OrderFirstSeen, o)

	_, err = ParseOrder("count")
	require.Error(t, err)
}

package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermecp/mapacuestionario/internal/survey"
)

func TestDistinctInOrder(t *testing.T) {
	rows := []survey.Row{
		row("q", "No", 0, 0),
		row("", "", 0, 0),
		row("q", "Sí", 0, 0),
		row("q", "NO ", 0, 0),
		row("q", "si", 0, 0),
	}
	assert.Equal(t, []string{"no", "si"}, DistinctInOrder(rows, "q"))
}

func TestAssignColors_FirstOccurrenceOrder(t *testing.T) {
	a := AssignColors([]string{"si", "no", "tal vez"}, Tab20, "")
	assert.Equal(t, Tab20[0], a.Lookup("si"))
	assert.Equal(t, Tab20[1], a.Lookup("no"))
	assert.Equal(t, Tab20[2], a.Lookup("tal vez"))
	assert.Equal(t, 3, a.Len())
}

func TestAssignColors_OneColorPerValue(t *testing.T) {
	a := AssignColors([]string{"a", "b", "a", "c", "b"}, Tab20, "")
	assert.Equal(t, []string{"a", "b", "c"}, a.Values)
	assert.Len(t, a.Colors, 3)
	assert.Equal(t, Tab20[2], a.Lookup("c"))
}

func TestAssignColors_PaletteWraps(t *testing.T) {
	var values []string
	for i := 0; i < 25; i++ {
		values = append(values, fmt.Sprintf("v%02d", i))
	}
	a := AssignColors(values, Tab20, "")
	require.Len(t, a.Colors, 25)
	assert.Equal(t, Tab20[0], a.Lookup("v20"))
	assert.Equal(t, Tab20[4], a.Lookup("v24"))
}

func TestAssignColors_Fallback(t *testing.T) {
	a := AssignColors([]string{"si"}, Tab20, "")
	assert.Equal(t, DefaultFallbackColor, a.Lookup("nunca visto"))

	custom := AssignColors(nil, Tab20, "#cccccc")
	assert.Equal(t, "#cccccc", custom.Lookup("si"))
}

func TestAssignColors_Deterministic(t *testing.T) {
	rows := scenarioRows()
	assert.Equal(t, ColorsFor(rows, "colA", ""), ColorsFor(rows, "colA", ""))
}

func TestColorsFor_CoversEveryValue(t *testing.T) {
	rows := scenarioRows()
	a := ColorsFor(rows, "colA", "")
	for _, r := range rows {
		raw, _ := r.Value("colA")
		_, ok := a.Colors[survey.Normalize(raw)]
		assert.True(t, ok, raw)
	}
}

func TestPalette_AtEmpty(t *testing.T) {
	assert.Equal(t, DefaultFallbackColor, Palette{}.At(3))
}

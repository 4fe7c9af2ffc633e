package analysis

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/survey"
)

// Order selects how frequency rows are sorted.
type Order string

const (
	// OrderByLabel sorts ascending by normalized value, byte-wise. Default.
	OrderByLabel Order = "label"
	// OrderFirstSeen keeps the order in which values first occur in the rows.
	OrderFirstSeen Order = "first_seen"
)

// ParseOrder validates an order name. Empty selects OrderByLabel.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderByLabel:
		return OrderByLabel, nil
	case OrderFirstSeen:
		return OrderFirstSeen, nil
	default:
		return "", eris.Errorf("analysis: unknown order %q (want %q or %q)", s, OrderByLabel, OrderFirstSeen)
	}
}

// FrequencyRow is the count and share of one normalized answer.
type FrequencyRow struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Aggregate counts the normalized non-null values of column. Percentages are
// taken over the non-null total and rounded to one decimal, half away from
// zero. A column with no non-null values yields an empty result.
func Aggregate(rows []survey.Row, column string, order Order) []FrequencyRow {
	counts := make(map[string]int)
	var firstSeen []string
	total := 0
	for _, r := range rows {
		raw, ok := r.Value(column)
		if !ok {
			continue
		}
		v := survey.Normalize(raw)
		if _, seen := counts[v]; !seen {
			firstSeen = append(firstSeen, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return []FrequencyRow{}
	}

	out := make([]FrequencyRow, 0, len(firstSeen))
	for _, v := range firstSeen {
		out = append(out, FrequencyRow{
			Value:      v,
			Count:      counts[v],
			Percentage: Round1(float64(counts[v]) / float64(total) * 100),
		})
	}

	if order != OrderFirstSeen {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	}
	return out
}

// Round1 rounds x to one decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Totals returns the summed counts and percentages of rows.
func Totals(rows []FrequencyRow) (count int, percentage float64) {
	for _, r := range rows {
		count += r.Count
		percentage += r.Percentage
	}
	return count, Round1(percentage)
}

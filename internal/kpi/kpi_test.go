package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
	"github.com/KaramelBytes/glance-cli/internal/testkit"
)

func labels(kpis []KPI) []string {
	out := make([]string, len(kpis))
	for i, k := range kpis {
		out[i] = k.Label
	}
	return out
}

func TestSelectNumericTriad(t *testing.T) {
	rows := testkit.Amounts()
	kpis := Select(rows, profile.Profile(rows), heuristics.Default())
	require.Equal(t, []string{"Rows", "Missing cells", "Total amount", "Average amount", "amount range"}, labels(kpis))

	assert.Equal(t, 100.0, kpis[0].Value)
	assert.Equal(t, "0.0%", kpis[1].Display())
	total, ok := kpis[2].Number()
	require.True(t, ok)
	assert.InDelta(t, 14950, total, 1e-9)
	assert.Equal(t, "149.5", kpis[3].Display())
	assert.Equal(t, "1 – 10,000", kpis[4].Display())

	col, ok := MainMetric(kpis)
	require.True(t, ok)
	assert.Equal(t, "amount", col)
}

func TestSelectCapsAndStartsWithRows(t *testing.T) {
	rows := testkit.Orders(testkit.DefaultOrdersConfig())
	cfg := heuristics.Default()
	kpis := Select(rows, profile.Profile(rows), cfg)
	require.NotEmpty(t, kpis)
	assert.LessOrEqual(t, len(kpis), cfg.MaxKPIs)
	assert.Equal(t, "Rows", kpis[0].Label)
	assert.Equal(t, float64(len(rows)), kpis[0].Value)
	for _, k := range kpis {
		assert.NotEqual(t, "order_id", k.Column)
	}
}

func TestSelectSkipsIdentifiers(t *testing.T) {
	rows := testkit.SequentialIDs(60)
	kpis := Select(rows, profile.Profile(rows), heuristics.Default())
	for _, k := range kpis {
		assert.NotEqual(t, "order_id", k.Column, "identifier leaked into %q", k.Label)
	}
	_, ok := MainMetric(kpis)
	assert.False(t, ok)

	last := kpis[len(kpis)-1]
	assert.Equal(t, TypeTop, last.Type)
	assert.Equal(t, "channel", last.Column)
	assert.Equal(t, "phone (33.3%)", last.Display())
}

func TestSelectDuplicatesAndDates(t *testing.T) {
	rows := []table.Row{
		{"day": "2024-01-01", "v": "a"},
		{"day": "2024-01-01", "v": "a"},
		{"day": "2024-02-15", "v": "b"},
	}
	kpis := Select(rows, profile.Profile(rows), heuristics.Default())
	assert.Contains(t, labels(kpis), "Duplicate rows")
	span := kpis[len(kpis)-1]
	assert.Equal(t, TypeSpan, span.Type)
	assert.Equal(t, "2024-01-01 → 2024-02-15 (45 days)", span.Display())
}

func TestScoresRejectIneligibleColumns(t *testing.T) {
	cfg := heuristics.Default()
	flat := profile.NumericProfile{Column: "flat", Parsed: 10, Min: 3, Max: 3}
	assert.Zero(t, NumericScore(flat, cfg))

	id := profile.CategoricalProfile{Column: "ref", InferredAsIdentifier: true,
		Counts: profile.Counts{Unique: 5, NonMissing: 5}, TopValues: []profile.TopValue{{Value: "a", Count: 1, Percent: 20}}}
	assert.Zero(t, CategoricalScore(id, cfg))

	names := profile.CategoricalProfile{Column: "customer",
		Counts: profile.Counts{Unique: 300, NonMissing: 400}, TopValues: []profile.TopValue{{Value: "Ann", Count: 3, Percent: 0.75}}}
	assert.Zero(t, CategoricalScore(names, cfg))
}

func TestSelectSkipsTotalWhenSumOverflows(t *testing.T) {
	rows := make([]table.Row, 0, 30)
	for _, r := range testkit.Extremes(30) {
		rows = append(rows, table.Row{"volume": r["volume"]})
	}
	kpis := Select(rows, profile.Profile(rows), heuristics.Default())
	assert.Equal(t, []string{"Rows", "Missing cells", "Average volume", "volume range"}, labels(kpis))
	avg, ok := kpis[2].Number()
	require.True(t, ok)
	assert.InEpsilon(t, 6.45e307, avg, 1e-9)

	col, ok := MainMetric(kpis)
	require.True(t, ok)
	assert.Equal(t, "volume", col)
}

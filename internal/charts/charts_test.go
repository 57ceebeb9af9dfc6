package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
	"github.com/KaramelBytes/glance-cli/internal/testkit"
)

func generate(rows []table.Row) []Spec {
	return Generate(rows, profile.Profile(rows), heuristics.Default())
}

func TestAmountsBoxPlotFlagsSpike(t *testing.T) {
	specs := generate(testkit.Amounts())
	var box *Box
	var hist *Histogram
	for _, s := range specs {
		switch c := s.(type) {
		case Box:
			box = &c
		case Histogram:
			hist = &c
		}
	}
	require.NotNil(t, box, "expected a box plot for amount")
	assert.Contains(t, box.Outliers, 10000.0)
	assert.LessOrEqual(t, box.Min, box.Q1)
	assert.LessOrEqual(t, box.Q1, box.Median)
	assert.LessOrEqual(t, box.Median, box.Q3)
	assert.LessOrEqual(t, box.Q3, box.Max)

	require.NotNil(t, hist, "expected a histogram for amount")
	sum := 0
	for _, c := range hist.Counts {
		sum += c
	}
	assert.Equal(t, hist.Total, sum)
	assert.Len(t, hist.Edges, hist.BinCount+1)
}

func TestHistogramCountsOnlyParsedCells(t *testing.T) {
	rows := testkit.PartlyNumeric(50)
	p := profile.Profile(rows)
	price, ok := p.Profiles["price"].(profile.NumericProfile)
	require.True(t, ok)

	var hist *Histogram
	for _, s := range generate(rows) {
		if h, ok := s.(Histogram); ok && h.Column == "price" {
			hist = &h
		}
	}
	require.NotNil(t, hist, "expected a histogram for price")
	sum := 0
	for _, c := range hist.Counts {
		sum += c
	}
	assert.Equal(t, hist.Total, sum)
	assert.Equal(t, price.Parsed, hist.Total)
	assert.Equal(t, 5, price.NonMissing-hist.Total, "N/A cells are left out of the bins")
}

func TestExtremeValuesProduceFiniteCharts(t *testing.T) {
	specs := generate(testkit.Extremes(30))
	require.NotEmpty(t, specs)
	for _, s := range specs {
		if b, ok := s.(Box); ok {
			assert.NotEqual(t, "delta", b.Column, "an overflowing IQR has no box plot")
		}
		if h, ok := s.(Histogram); ok {
			for _, e := range h.Edges {
				assert.False(t, math.IsInf(e, 0), "edge of %s", h.Column)
			}
			assert.Equal(t, h.Min, h.Edges[0])
			assert.Equal(t, h.Max, h.Edges[len(h.Edges)-1])
		}
	}
	_, err := json.Marshal(specs)
	require.NoError(t, err)
}

func TestBoxStatsWhiskersStayOutsideBox(t *testing.T) {
	b := BoxStats("v", []float64{5, 5, 5, 5, 100})
	assert.Equal(t, []float64{100}, b.Outliers)
	assert.LessOrEqual(t, b.Min, b.Q1)
	assert.GreaterOrEqual(t, b.Max, b.Q3)
	assert.Equal(t, 5, b.Total)
}

func TestBinCount(t *testing.T) {
	assert.Equal(t, 8, BinCount(12))
	assert.Equal(t, 10, BinCount(100))
	assert.Equal(t, 12, BinCount(1000))
	assert.Equal(t, 14, BinCount(5000))
}

func TestIdentifiersNeverCharted(t *testing.T) {
	for _, s := range generate(testkit.SequentialIDs(80)) {
		assert.NotContains(t, s.Columns(), "order_id", "chart %s uses the identifier", s.Title())
	}
}

func TestOrdersChartCountWithinBounds(t *testing.T) {
	cfg := heuristics.Default()
	specs := generate(testkit.Orders(testkit.DefaultOrdersConfig()))
	assert.GreaterOrEqual(t, len(specs), cfg.MinCharts)
	assert.LessOrEqual(t, len(specs), cfg.MaxCharts)

	perType := map[Type]int{}
	for _, s := range specs {
		perType[s.ChartType()]++
		assert.NotContains(t, s.Columns(), "order_id")
		assert.NotContains(t, s.Columns(), "note")
	}
	for typ, n := range perType {
		assert.LessOrEqual(t, n, typeCaps[typ], "type %s over cap", typ)
	}
	assert.Positive(t, perType[TypeTime], "orders span a quarter and should get a trend")
}

func TestTimeSeriesGranularity(t *testing.T) {
	cfg := heuristics.Default()
	rows := make([]table.Row, 0, 40)
	for i := 0; i < 40; i++ {
		rows = append(rows, table.Row{
			"day":   fmt.Sprintf("2024-01-%02d", 1+i%28),
			"sales": float64(10 + i),
		})
	}
	ts, _, ok := timeSeries(rows, "day", "sales", cfg)
	require.True(t, ok)
	assert.Equal(t, GranularityDay, ts.Granularity)
	assert.Len(t, ts.Points, 28)
	assert.Equal(t, "2024-01-01", ts.Points[0].X)
	// day 1 appears for i=0 and i=28
	assert.Equal(t, 10.0+38.0, ts.Points[0].Y)

	long := make([]table.Row, 0, 48)
	for i := 0; i < 48; i++ {
		long = append(long, table.Row{
			"day":   fmt.Sprintf("%d-%02d-15", 2020+i/12, 1+i%12),
			"sales": 1.0,
		})
	}
	ts, _, ok = timeSeries(long, "day", "sales", cfg)
	require.True(t, ok)
	assert.Equal(t, GranularityMonth, ts.Granularity)
	assert.Len(t, ts.Points, 48)
	assert.Equal(t, "2020-01", ts.Points[0].X)
}

func correlatedRows(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		x := float64(i) + 0.5
		rows = append(rows, table.Row{
			"a": x,
			"b": 2*x + 0.25*float64(i%3) + 0.1,
			"c": float64((i*7)%13) + 0.3,
			"d": float64((i*i)%17) + 0.7,
		})
	}
	return rows
}

func TestCorrelationMatrixSymmetricUnitDiagonal(t *testing.T) {
	rows := correlatedRows(60)
	var corr *Correlation
	for _, c := range Candidates(rows, profile.Profile(rows), heuristics.Default()) {
		if m, ok := c.Spec.(Correlation); ok {
			corr = &m
		}
	}
	require.NotNil(t, corr)
	n := len(corr.Cols)
	require.Equal(t, 4, n)
	require.Len(t, corr.Matrix, n)
	for i := 0; i < n; i++ {
		require.Len(t, corr.Matrix[i], n)
		assert.Equal(t, 1.0, corr.Matrix[i][i])
		for j := 0; j < n; j++ {
			assert.Equal(t, corr.Matrix[i][j], corr.Matrix[j][i])
			assert.LessOrEqual(t, corr.Matrix[i][j], 1.0)
			assert.GreaterOrEqual(t, corr.Matrix[i][j], -1.0)
		}
	}
}

func TestScatterPicksStrongestPair(t *testing.T) {
	rows := correlatedRows(60)
	s, _, ok := bestScatter(rows, []string{"a", "b", "c", "d"}, heuristics.Default())
	require.True(t, ok)
	assert.Equal(t, "a", s.XColumn)
	assert.Equal(t, "b", s.YColumn)
	require.NotNil(t, s.Correlation)
	assert.Greater(t, *s.Correlation, 0.99)
}

func TestBarChartFoldsTailIntoOther(t *testing.T) {
	cfg := heuristics.Default()
	rows := make([]table.Row, 0, 150)
	for i := 0; i < 150; i++ {
		label := fmt.Sprintf("cat%02d", i%15)
		if i < 60 {
			label = "big"
		}
		rows = append(rows, table.Row{"kind": label})
	}
	b, _, ok := barChart(rows, "kind", cfg)
	require.True(t, ok)
	require.Len(t, b.Labels, cfg.MaxBars+1)
	assert.Equal(t, "big", b.Labels[0])
	assert.Equal(t, OtherLabel, b.Labels[len(b.Labels)-1])
	total := 0
	for _, c := range b.Counts {
		total += c
	}
	assert.Equal(t, 150, total)
}

func TestSelectBackfillsAndCaps(t *testing.T) {
	cfg := heuristics.Default()
	var cands []Candidate
	for i := 0; i < 5; i++ {
		h := Histogram{Type: TypeHistogram, Column: fmt.Sprintf("h%d", i)}
		cands = append(cands, Candidate{Spec: h, Score: float64(10 - i), Purpose: PurposeOf(TypeHistogram)})
	}
	got := Select(cands, cfg)
	require.Len(t, got, cfg.MinCharts)
	assert.Equal(t, []string{"h0"}, got[0].Columns())

	var many []Candidate
	for i := 0; i < 30; i++ {
		var s Spec
		switch i % 3 {
		case 0:
			s = Histogram{Type: TypeHistogram, Column: fmt.Sprintf("n%d", i)}
		case 1:
			s = Bar{Type: TypeBar, Column: fmt.Sprintf("c%d", i)}
		default:
			s = TimeSeries{Type: TypeTime, XColumn: "d", YColumn: fmt.Sprintf("n%d", i)}
		}
		many = append(many, Candidate{Spec: s, Score: float64(100 - i), Purpose: PurposeOf(s.ChartType())})
	}
	got = Select(many, cfg)
	assert.LessOrEqual(t, len(got), cfg.MaxCharts)
	perType := map[Type]int{}
	for _, s := range got {
		perType[s.ChartType()]++
	}
	assert.Equal(t, 2, perType[TypeHistogram])
	assert.Equal(t, 2, perType[TypeBar])
	assert.Equal(t, 2, perType[TypeTime])
}

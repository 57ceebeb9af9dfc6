package charts

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Generate builds the candidate pool and returns the selected specs.
func Generate(rows []table.Row, p profile.DatasetProfile, cfg heuristics.Config) []Spec {
	cfg = cfg.Normalize()
	return Select(Candidates(rows, p, cfg), cfg)
}

// Candidates builds every structurally valid chart with its score.
func Candidates(rows []table.Row, p profile.DatasetProfile, cfg heuristics.Config) []Candidate {
	cfg = cfg.Normalize()
	r := assignRoles(rows, p, cfg)

	values := make(map[string][]float64, len(r.numeric))
	for _, col := range r.numeric {
		values[col] = numericValues(rows, col)
	}

	var out []Candidate
	add := func(s Spec, score float64) {
		out = append(out, Candidate{Spec: s, Score: score, Purpose: PurposeOf(s.ChartType())})
	}
	for _, col := range r.numeric {
		if h, score, ok := histogram(col, values[col], cfg); ok {
			add(h, score)
		}
		if b, score, ok := boxPlot(col, values[col], cfg); ok {
			add(b, score)
		}
	}
	for _, col := range r.categorical {
		if b, score, ok := barChart(rows, col, cfg); ok {
			add(b, score)
		}
	}
	for _, dcol := range r.dates {
		for _, ncol := range r.numeric {
			if ts, score, ok := timeSeries(rows, dcol, ncol, cfg); ok {
				add(ts, score)
			}
		}
	}
	if s, score, ok := bestScatter(rows, r.numeric, cfg); ok {
		add(s, score)
	}
	if c, score, ok := correlationMatrix(rows, r.numeric, values, cfg); ok {
		add(c, score)
	}
	return out
}

// BinCount picks histogram bins by sample size.
func BinCount(n int) int {
	switch {
	case n <= 30:
		return 8
	case n <= 200:
		return 10
	case n <= 1000:
		return 12
	default:
		return 14
	}
}

func histogram(col string, vals []float64, cfg heuristics.Config) (Histogram, float64, bool) {
	n := len(vals)
	if n < cfg.MinHistogramValues {
		return Histogram{}, 0, false
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if hi <= lo {
		return Histogram{}, 0, false
	}
	bins := BinCount(n)
	// hi - lo may overflow; dividing first keeps width finite.
	width := hi/float64(bins) - lo/float64(bins)
	if width <= 0 || math.IsInf(width, 0) {
		return Histogram{}, 0, false
	}
	edges := make([]float64, bins+1)
	for i := range edges {
		f := float64(i) / float64(bins)
		edges[i] = lo*(1-f) + hi*f
	}
	edges[bins] = hi
	counts := make([]int, bins)
	for _, v := range vals {
		idx := int(v/width - lo/width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	h := Histogram{
		Type:     TypeHistogram,
		Column:   col,
		BinCount: bins,
		Edges:    edges,
		Counts:   counts,
		Min:      lo,
		Max:      hi,
		Total:    n,
	}
	score := 10*math.Log10(float64(n)+1) + 10*log10p(hi-lo)
	return h, score, true
}

// BoxStats computes the five-number summary with Tukey fences.
func BoxStats(col string, vals []float64) Box {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	med := quantile(sorted, 0.5)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lowFence := q1 - 1.5*iqr
	highFence := q3 + 1.5*iqr

	b := Box{Type: TypeBox, Column: col, Q1: q1, Median: med, Q3: q3, IQR: iqr, Outliers: []float64{}, Total: len(sorted)}
	wLo, wHi := math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		wLo = math.Min(wLo, v)
		wHi = math.Max(wHi, v)
	}
	if math.IsInf(wLo, 1) {
		wLo, wHi = q1, q3
	}
	b.Min = math.Min(wLo, q1)
	b.Max = math.Max(wHi, q3)
	return b
}

func boxPlot(col string, vals []float64, cfg heuristics.Config) (Box, float64, bool) {
	n := len(vals)
	if n < cfg.MinBoxValues {
		return Box{}, 0, false
	}
	b := BoxStats(col, vals)
	if math.IsInf(b.IQR, 0) || math.IsNaN(b.IQR) {
		return Box{}, 0, false
	}
	rate := float64(len(b.Outliers)) / float64(n)
	score := 10*math.Log10(float64(n)+1) + 12*log10p(b.IQR) + math.Min(25, 120*rate)
	return b, score, true
}

// OtherLabel is the synthesized bucket for categories past MaxBars.
const OtherLabel = "Other"

func barChart(rows []table.Row, col string, cfg heuristics.Config) (Bar, float64, bool) {
	freq := map[string]int{}
	total := 0
	for _, r := range rows {
		v := r[col]
		if table.IsMissing(v) {
			continue
		}
		freq[infer.Key(v)]++
		total++
	}
	if len(freq) < 2 {
		return Bar{}, 0, false
	}
	type kv struct {
		label string
		count int
	}
	ranked := make([]kv, 0, len(freq))
	for k, c := range freq {
		ranked = append(ranked, kv{k, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count == ranked[j].count {
			return ranked[i].label < ranked[j].label
		}
		return ranked[i].count > ranked[j].count
	})
	topShare := float64(ranked[0].count) / float64(total)
	if infer.IsNameList(len(freq), total, topShare, cfg) {
		return Bar{}, 0, false
	}
	b := Bar{Type: TypeBar, Column: col, MaxBars: cfg.MaxBars}
	other := 0
	for i, e := range ranked {
		if i < cfg.MaxBars {
			b.Labels = append(b.Labels, e.label)
			b.Counts = append(b.Counts, e.count)
			continue
		}
		other += e.count
	}
	if other > 0 {
		b.Labels = append(b.Labels, OtherLabel)
		b.Counts = append(b.Counts, other)
	}
	score := 10*math.Log10(float64(total)+1) + 20*topShare
	if len(freq) <= cfg.MaxBars {
		score += 5
	}
	return b, score, true
}

func timeSeries(rows []table.Row, dcol, ncol string, cfg heuristics.Config) (TimeSeries, float64, bool) {
	type pair struct {
		t time.Time
		y float64
	}
	pairs := make([]pair, 0, len(rows))
	var lo, hi time.Time
	for _, r := range rows {
		t, ok := infer.ParseDate(r[dcol])
		if !ok {
			continue
		}
		y, ok := infer.ParseNumber(r[ncol])
		if !ok {
			continue
		}
		if len(pairs) == 0 || t.Before(lo) {
			lo = t
		}
		if len(pairs) == 0 || t.After(hi) {
			hi = t
		}
		pairs = append(pairs, pair{t, y})
	}
	if len(pairs) < cfg.MinTimePairs {
		return TimeSeries{}, 0, false
	}
	gran := GranularityMonth
	layout := "2006-01"
	if hi.Sub(lo).Hours()/24 <= cfg.DailySpanDays {
		gran = GranularityDay
		layout = "2006-01-02"
	}
	sums := map[string]float64{}
	for _, p := range pairs {
		sums[p.t.UTC().Format(layout)] += p.y
	}
	if len(sums) < cfg.MinTimePeriods {
		return TimeSeries{}, 0, false
	}
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ts := TimeSeries{Type: TypeTime, XColumn: dcol, YColumn: ncol, Granularity: gran, Points: make([]Point, len(keys))}
	ys := make([]float64, len(keys))
	for i, k := range keys {
		if math.IsInf(sums[k], 0) || math.IsNaN(sums[k]) {
			return TimeSeries{}, 0, false
		}
		ts.Points[i] = Point{X: k, Y: sums[k]}
		ys[i] = sums[k]
	}
	score := 12*math.Log10(float64(len(keys))+1) + 6*log10p(floats.Max(ys)-floats.Min(ys)) + 10
	return ts, score, true
}

// bestScatter scores every numeric pair and keeps only the strongest.
func bestScatter(rows []table.Row, numeric []string, cfg heuristics.Config) (Scatter, float64, bool) {
	var best Scatter
	bestScore := math.Inf(-1)
	found := false
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			xs, ys := coPresent(rows, numeric[i], numeric[j])
			if len(xs) < cfg.MinScatterPairs {
				continue
			}
			r, ok := pearson(xs, ys)
			absR := 0.0
			if ok {
				absR = math.Abs(r)
			}
			score := 45*absR + 2*log10p(variance(xs)) + 2*log10p(variance(ys))
			if found && score <= bestScore {
				continue
			}
			s := Scatter{Type: TypeScatter, XColumn: numeric[i], YColumn: numeric[j], Points: downsample(xs, ys, cfg.MaxScatterPoints)}
			if ok {
				rr := r
				s.Correlation = &rr
			}
			best, bestScore, found = s, score, true
		}
	}
	return best, bestScore, found
}

func coPresent(rows []table.Row, a, b string) ([]float64, []float64) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, r := range rows {
		x, ok := infer.ParseNumber(r[a])
		if !ok {
			continue
		}
		y, ok := infer.ParseNumber(r[b])
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// downsample keeps at most limit evenly strided points.
func downsample(xs, ys []float64, limit int) []Point {
	n := len(xs)
	stride := 1
	if n > limit {
		stride = int(math.Ceil(float64(n) / float64(limit)))
	}
	out := make([]Point, 0, n/stride+1)
	for i := 0; i < n && len(out) < limit; i += stride {
		out = append(out, Point{X: xs[i], Y: ys[i]})
	}
	return out
}

func correlationMatrix(rows []table.Row, numeric []string, values map[string][]float64, cfg heuristics.Config) (Correlation, float64, bool) {
	if len(numeric) < cfg.MinCorrColumns {
		return Correlation{}, 0, false
	}
	type ranked struct {
		col   string
		score float64
	}
	rk := make([]ranked, 0, len(numeric))
	for _, col := range numeric {
		vals := values[col]
		uniq := map[float64]struct{}{}
		for _, v := range vals {
			uniq[v] = struct{}{}
		}
		sd := math.Sqrt(variance(vals))
		rk = append(rk, ranked{col, 10*log10p(sd) + 2*math.Log10(float64(len(uniq))+1)})
	}
	sort.SliceStable(rk, func(i, j int) bool { return rk[i].score > rk[j].score })
	if len(rk) > cfg.MaxCorrColumns {
		rk = rk[:cfg.MaxCorrColumns]
	}
	cols := make([]string, len(rk))
	for i, e := range rk {
		cols[i] = e.col
	}

	series := make([][]float64, len(cols))
	for _, r := range rows {
		rowVals := make([]float64, len(cols))
		complete := true
		for i, c := range cols {
			x, ok := infer.ParseNumber(r[c])
			if !ok {
				complete = false
				break
			}
			rowVals[i] = x
		}
		if !complete {
			continue
		}
		for i := range cols {
			series[i] = append(series[i], rowVals[i])
		}
	}
	if len(series[0]) < cfg.MinCorrRows {
		return Correlation{}, 0, false
	}

	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	var sumAbs float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, ok := pearson(series[i], series[j])
			if !ok {
				r = 0
			}
			mat[i][j] = r
			mat[j][i] = r
			sumAbs += math.Abs(r)
		}
	}
	pairs := float64(n*(n-1)) / 2
	score := 8*math.Log10(float64(len(series[0]))+1) + 2*float64(n) + 30*sumAbs/pairs
	return Correlation{Type: TypeCorrelation, Cols: cols, Matrix: mat}, score, true
}

// Package profile computes dataset-level facts and per-column statistics.
package profile

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Profile profiles bare rows with the default thresholds. Column order is
// derived from the rows (see table.FromRows).
func Profile(rows []table.Row) DatasetProfile {
	return ProfileTable(table.FromRows(rows), heuristics.Default())
}

// ProfileTable profiles a table. It never fails; columns with no usable values
// get empty profiles.
func ProfileTable(t table.Table, cfg heuristics.Config) DatasetProfile {
	cfg = cfg.Normalize()
	dp := DatasetProfile{
		RowCount:        len(t.Rows),
		Columns:         append([]string(nil), t.Columns...),
		EmptyColumns:    []string{},
		ConstantColumns: []string{},
		Profiles:        make(map[string]ColumnProfile, len(t.Columns)),
	}
	dp.DuplicateRows = countDuplicates(t)

	for _, col := range t.Columns {
		values := t.Values(col)
		cp := profileColumn(col, values, cfg)
		counts := cp.Stats()
		if counts.NonMissing == 0 {
			dp.EmptyColumns = append(dp.EmptyColumns, col)
		} else if counts.Unique == 1 {
			dp.ConstantColumns = append(dp.ConstantColumns, col)
		}
		dp.Profiles[col] = cp
	}
	return dp
}

// ProfileColumn classifies and summarizes a single column.
func ProfileColumn(name string, values []any, cfg heuristics.Config) ColumnProfile {
	return profileColumn(name, values, cfg.Normalize())
}

func profileColumn(name string, values []any, cfg heuristics.Config) ColumnProfile {
	counts, freq := countValues(values)
	if counts.NonMissing == 0 {
		return CategoricalProfile{Column: name, Counts: counts, TopValues: []TopValue{}}
	}
	cls := infer.Classify(name, values, counts.Unique, counts.NonMissing, cfg)
	switch cls.Kind {
	case infer.KindIdentifier:
		return CategoricalProfile{
			Column:               name,
			Counts:               counts,
			TopValues:            topValues(freq, counts.NonMissing, cfg.TopValues),
			InferredAsIdentifier: true,
			IdentifierReason:     string(cls.Reason),
		}
	case infer.KindNumeric:
		return numericProfile(name, values, counts)
	case infer.KindDate:
		return dateProfile(name, values, counts)
	case infer.KindText:
		return TextProfile{
			Column:        name,
			Counts:        counts,
			AverageLength: averageLength(freq, counts.NonMissing),
			TopValues:     topValues(freq, counts.NonMissing, cfg.TopValues),
		}
	default:
		return CategoricalProfile{
			Column:    name,
			Counts:    counts,
			TopValues: topValues(freq, counts.NonMissing, cfg.TopValues),
		}
	}
}

// countValues tallies missing cells and a frequency map of canonical keys.
func countValues(values []any) (Counts, map[string]int) {
	var c Counts
	freq := make(map[string]int)
	for _, v := range values {
		if table.IsMissing(v) {
			c.Missing++
			continue
		}
		c.NonMissing++
		freq[infer.Key(v)]++
	}
	c.Unique = len(freq)
	return c, freq
}

func numericProfile(name string, values []any, counts Counts) NumericProfile {
	p := NumericProfile{Column: name, Counts: counts, IntegerLike: true}
	nums := make([]float64, 0, counts.NonMissing)
	for _, v := range values {
		if table.IsMissing(v) {
			continue
		}
		x, ok := infer.ParseNumber(v)
		if !ok {
			continue
		}
		nums = append(nums, x)
		if x == 0 {
			p.Zeros++
		}
		if x < 0 {
			p.Negatives++
		}
		if x != math.Trunc(x) {
			p.IntegerLike = false
		}
	}
	p.Parsed = len(nums)
	if len(nums) == 0 {
		p.IntegerLike = false
		return p
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	p.Min = sorted[0]
	p.Max = sorted[len(sorted)-1]
	if sum, err := stats.Sum(sorted); err == nil && finite(sum) {
		p.Sum = &sum
	}
	p.Mean, _ = stats.Mean(sorted)
	if !finite(p.Mean) {
		p.Mean = runningMean(sorted)
	}
	p.Median, _ = stats.Median(sorted)
	if len(sorted) >= 2 {
		if sd, err := stats.StandardDeviationSample(sorted); err == nil && finite(sd) {
			p.Stdev = &sd
		}
	}
	return p
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// runningMean stays finite for finite inputs whose plain sum overflows.
func runningMean(xs []float64) float64 {
	var m float64
	for i, x := range xs {
		k := float64(i + 1)
		m += x/k - m/k
	}
	return m
}

func dateProfile(name string, values []any, counts Counts) DateProfile {
	p := DateProfile{Column: name, Counts: counts}
	for _, v := range values {
		t, ok := infer.ParseDate(v)
		if !ok {
			continue
		}
		if p.Parsed == 0 || t.Before(p.Min) {
			p.Min = t
		}
		if p.Parsed == 0 || t.After(p.Max) {
			p.Max = t
		}
		p.Parsed++
	}
	return p
}

// topValues ranks keys by count (ties by value) and keeps the first n.
func topValues(freq map[string]int, nonMissing, n int) []TopValue {
	out := make([]TopValue, 0, len(freq))
	for k, c := range freq {
		out = append(out, TopValue{Value: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	for i := range out {
		if nonMissing > 0 {
			out[i].Percent = float64(out[i].Count) * 100 / float64(nonMissing)
		}
	}
	return out
}

func averageLength(freq map[string]int, nonMissing int) float64 {
	if nonMissing == 0 {
		return 0
	}
	total := 0
	for k, c := range freq {
		total += utf8.RuneCountInString(k) * c
	}
	return float64(total) / float64(nonMissing)
}

// countDuplicates fingerprints each row over the canonical column order and
// returns rows minus distinct fingerprints.
func countDuplicates(t table.Table) int {
	if len(t.Rows) < 2 || len(t.Columns) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(t.Rows))
	var b strings.Builder
	for _, r := range t.Rows {
		b.Reset()
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			v := r[c]
			if !table.IsMissing(v) {
				b.WriteString(infer.Key(v))
			}
		}
		seen[b.String()] = struct{}{}
	}
	return len(t.Rows) - len(seen)
}

// Fingerprint is a stable digest input describing the table content, used for
// deterministic report identifiers.
func Fingerprint(t table.Table) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "\x1e"))
	for _, r := range t.Rows {
		b.WriteByte('\n')
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(infer.Key(r[c]))
		}
	}
	return b.String()
}

// Package kpi picks a small ranked strip of headline metrics from a profile.
package kpi

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/glance-cli/internal/format"
	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Type tags what a KPI measures.
type Type string

const (
	TypeSum   Type = "sum"
	TypeMean  Type = "mean"
	TypeMin   Type = "min"
	TypeMax   Type = "max"
	TypeCount Type = "count"
	TypeRate  Type = "rate"
	TypeRange Type = "range"
	TypeSpan  Type = "span"
	TypeTop   Type = "top"
)

// KPI is a headline metric. Value is a float64 or a preformatted string.
type KPI struct {
	Label  string `json:"label" yaml:"label"`
	Value  any    `json:"value" yaml:"value"`
	Type   Type   `json:"type" yaml:"type"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
}

// Number returns the numeric value when the KPI carries one.
func (k KPI) Number() (float64, bool) {
	f, ok := k.Value.(float64)
	return f, ok
}

// Display renders the value for text output.
func (k KPI) Display() string {
	switch v := k.Value.(type) {
	case float64:
		if k.Type == TypeRate {
			return format.Percent(v)
		}
		return format.Number(v)
	case string:
		return v
	}
	return fmt.Sprint(k.Value)
}

// Select builds the KPI strip in fixed order: rows, duplicates, missing rate,
// one numeric triad (total, average, range), top category, date span. The
// result is capped at cfg.MaxKPIs.
func Select(rows []table.Row, p profile.DatasetProfile, cfg heuristics.Config) []KPI {
	cfg = cfg.Normalize()
	out := []KPI{{Label: "Rows", Value: float64(len(rows)), Type: TypeCount}}
	if p.DuplicateRows > 0 {
		out = append(out, KPI{Label: "Duplicate rows", Value: float64(p.DuplicateRows), Type: TypeCount})
	}
	if rate, ok := MissingRate(p); ok {
		out = append(out, KPI{Label: "Missing cells", Value: rate, Type: TypeRate})
	}
	if best, ok := bestNumeric(p, cfg); ok {
		if total, ok := sumColumn(rows, best); ok {
			out = append(out, KPI{Label: "Total " + best.Column, Value: total, Type: TypeSum, Column: best.Column})
		}
		out = append(out,
			KPI{Label: "Average " + best.Column, Value: best.Mean, Type: TypeMean, Column: best.Column},
			KPI{Label: best.Column + " range", Value: fmt.Sprintf("%s – %s", format.Number(best.Min), format.Number(best.Max)), Type: TypeRange, Column: best.Column},
		)
	}
	if best, ok := bestCategorical(p, cfg); ok {
		top := best.TopValues[0]
		out = append(out, KPI{
			Label:  "Top " + best.Column,
			Value:  fmt.Sprintf("%s (%s)", top.Value, format.Percent(top.Percent)),
			Type:   TypeTop,
			Column: best.Column,
		})
	}
	if best, ok := widestDate(p); ok {
		out = append(out, KPI{
			Label:  best.Column + " span",
			Value:  fmt.Sprintf("%s → %s (%s)", format.Day(best.Min), format.Day(best.Max), format.Days(best.SpanDays())),
			Type:   TypeSpan,
			Column: best.Column,
		})
	}
	if len(out) > cfg.MaxKPIs {
		out = out[:cfg.MaxKPIs]
	}
	return out
}

// MissingRate is total missing cells over total cells, in percent, summed per
// column from each column's own counts.
func MissingRate(p profile.DatasetProfile) (float64, bool) {
	var missing, cells int
	for _, cp := range p.Ordered() {
		c := cp.Stats()
		missing += c.Missing
		cells += c.Missing + c.NonMissing
	}
	if cells == 0 {
		return 0, false
	}
	return float64(missing) * 100 / float64(cells), true
}

// MainMetric returns the column behind the numeric triad, if any.
func MainMetric(kpis []KPI) (string, bool) {
	for _, k := range kpis {
		if (k.Type == TypeSum || k.Type == TypeMean) && k.Column != "" {
			return k.Column, true
		}
	}
	return "", false
}

// NumericScore ranks a numeric column for the KPI strip. Zero means ineligible.
func NumericScore(n profile.NumericProfile, cfg heuristics.Config) float64 {
	if n.Parsed < 2 || n.Range() <= 0 {
		return 0
	}
	if infer.IdentifierLike(n.Column, n.Unique, n.NonMissing, n.IntegerLike, n.Range(), cfg) {
		return 0
	}
	return math.Log10(float64(n.NonMissing)+1)*12 + math.Log10(n.Spread()+1)*10
}

func bestNumeric(p profile.DatasetProfile, cfg heuristics.Config) (profile.NumericProfile, bool) {
	var best profile.NumericProfile
	bestScore := 0.0
	for _, n := range p.Numeric() {
		if s := NumericScore(n, cfg); s > bestScore {
			best, bestScore = n, s
		}
	}
	return best, bestScore > 0
}

// CategoricalScore ranks a categorical column. Zero means ineligible.
func CategoricalScore(c profile.CategoricalProfile, cfg heuristics.Config) float64 {
	if c.InferredAsIdentifier || c.Unique < 2 || len(c.TopValues) == 0 {
		return 0
	}
	if infer.IsNameList(c.Unique, c.NonMissing, c.TopShare(), cfg) {
		return 0
	}
	score := c.TopValues[0].Percent * 2
	switch {
	case c.Unique <= 12:
		score += 30
	case c.Unique <= 25:
		score += 15
	}
	if c.UniqueRatio() < 0.4 {
		score += 10
	}
	return score
}

func bestCategorical(p profile.DatasetProfile, cfg heuristics.Config) (profile.CategoricalProfile, bool) {
	var best profile.CategoricalProfile
	bestScore := 0.0
	for _, c := range p.Categorical() {
		if s := CategoricalScore(c, cfg); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore > 0
}

func widestDate(p profile.DatasetProfile) (profile.DateProfile, bool) {
	var best profile.DateProfile
	found := false
	for _, d := range p.Dates() {
		if d.Parsed == 0 {
			continue
		}
		if !found || d.SpanDays() > best.SpanDays() {
			best, found = d, true
		}
	}
	return best, found
}

// sumColumn re-adds the parsed values from rows so the total is exact for the
// current row set. It reports false when the total overflows.
func sumColumn(rows []table.Row, n profile.NumericProfile) (float64, bool) {
	var sum float64
	var seen int
	for _, r := range rows {
		if x, ok := infer.ParseNumber(r[n.Column]); ok {
			sum += x
			seen++
		}
	}
	if seen == 0 {
		if n.Sum == nil {
			return 0, false
		}
		return *n.Sum, true
	}
	if math.IsInf(sum, 0) || math.IsNaN(sum) {
		return 0, false
	}
	return sum, true
}

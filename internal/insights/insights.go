// Package insights turns a profile and KPI strip into ranked plain-language
// observations.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/glance-cli/internal/format"
	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/kpi"
	"github.com/KaramelBytes/glance-cli/internal/profile"
)

// Severity ranks an insight.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

// Insight is one observation.
type Insight struct {
	ID        string   `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Severity  Severity `json:"severity" yaml:"severity"`
	Column    string   `json:"column,omitempty" yaml:"column,omitempty"`
	Action    string   `json:"action,omitempty" yaml:"action,omitempty"`
	Questions []string `json:"questions,omitempty" yaml:"questions,omitempty"`
}

func severityRank(s Severity) int {
	switch s {
	case SeverityWarning:
		return 0
	case SeverityPositive:
		return 1
	default:
		return 2
	}
}

// Generate applies every rule, drops repeated ids, orders by severity
// (warning, positive, info; rule order within a severity) and caps the list.
func Generate(p profile.DatasetProfile, kpis []kpi.KPI, cfg heuristics.Config) []Insight {
	cfg = cfg.Normalize()
	var all []Insight
	all = append(all, duplicateRows(p)...)
	all = append(all, emptyColumns(p, cfg)...)
	all = append(all, constantColumns(p, cfg)...)
	all = append(all, missingValues(p, cfg)...)
	all = append(all, outliers(p, kpis, cfg)...)
	all = append(all, dominance(p, cfg)...)
	all = append(all, dateCoverage(p, cfg)...)
	all = append(all, headline(p, kpis)...)

	seen := map[string]struct{}{}
	out := make([]Insight, 0, len(all))
	for _, in := range all {
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		if _, dup := seen[in.ID]; dup {
			continue
		}
		seen[in.ID] = struct{}{}
		out = append(out, in)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	if len(out) > cfg.MaxInsights {
		out = out[:cfg.MaxInsights]
	}
	return out
}

func duplicateRows(p profile.DatasetProfile) []Insight {
	if p.DuplicateRows <= 0 {
		return nil
	}
	pct := 0.0
	if p.RowCount > 0 {
		pct = float64(p.DuplicateRows) * 100 / float64(p.RowCount)
	}
	return []Insight{{
		ID:       "duplicate-rows",
		Severity: SeverityWarning,
		Text: fmt.Sprintf("%s duplicate %s found (%s of all rows); totals and counts may be inflated.",
			format.Count(p.DuplicateRows), format.Plural(p.DuplicateRows, "row", "rows"), format.Percent(pct)),
		Action: "Remove exact duplicate rows before reporting totals.",
	}}
}

func listNames(names []string, limit int) string {
	shown := names
	if len(shown) > limit {
		shown = shown[:limit]
	}
	quoted := make([]string, len(shown))
	for i, n := range shown {
		quoted[i] = "`" + n + "`"
	}
	s := strings.Join(quoted, ", ")
	if extra := len(names) - len(shown); extra > 0 {
		s += fmt.Sprintf(" and %d more", extra)
	}
	return s
}

func emptyColumns(p profile.DatasetProfile, cfg heuristics.Config) []Insight {
	if len(p.EmptyColumns) == 0 {
		return nil
	}
	n := len(p.EmptyColumns)
	return []Insight{{
		ID:       "empty-columns",
		Severity: SeverityWarning,
		Text:     fmt.Sprintf("%d %s completely empty: %s.", n, format.Plural(n, "column is", "columns are"), listNames(p.EmptyColumns, cfg.ListedColumns)),
		Action:   "Drop empty columns or check the export settings that produced them.",
	}}
}

func constantColumns(p profile.DatasetProfile, cfg heuristics.Config) []Insight {
	if len(p.ConstantColumns) == 0 {
		return nil
	}
	n := len(p.ConstantColumns)
	return []Insight{{
		ID:       "constant-columns",
		Severity: SeverityInfo,
		Text:     fmt.Sprintf("%d %s a single value: %s.", n, format.Plural(n, "column holds", "columns hold"), listNames(p.ConstantColumns, cfg.ListedColumns)),
		Action:   "Constant columns carry no signal for comparisons and can be hidden.",
	}}
}

func missingValues(p profile.DatasetProfile, cfg heuristics.Config) []Insight {
	var out []Insight
	for _, cp := range p.Ordered() {
		c := cp.Stats()
		if c.NonMissing == 0 {
			continue
		}
		pct := c.MissingPct()
		sev := SeverityInfo
		switch {
		case pct >= cfg.MissingWarnPct:
			sev = SeverityWarning
		case pct >= cfg.MissingInfoPct:
		default:
			continue
		}
		name := cp.ColumnName()
		out = append(out, Insight{
			ID:        "missing-" + name,
			Severity:  sev,
			Column:    name,
			Text:      fmt.Sprintf("`%s` is missing in %s of rows (%s of %s).", name, format.Percent(pct), format.Count(c.Missing), format.Count(c.Missing+c.NonMissing)),
			Action:    "Confirm whether blanks mean zero, unknown or not applicable before aggregating.",
			Questions: questionsFor(kindMissing, name),
		})
	}
	return out
}

type outlierCandidate struct {
	col   profile.NumericProfile
	ratio float64
	score float64
}

func outliers(p profile.DatasetProfile, kpis []kpi.KPI, cfg heuristics.Config) []Insight {
	main, _ := kpi.MainMetric(kpis)
	var cands []outlierCandidate
	for _, n := range p.Numeric() {
		if n.Parsed == 0 || n.Mean <= 0 {
			continue
		}
		if infer.IdentifierLike(n.Column, n.Unique, n.NonMissing, n.IntegerLike, n.Range(), cfg) {
			continue
		}
		ratio := n.Max / n.Mean
		if ratio < cfg.OutlierMaxMean {
			continue
		}
		score := 10 * ratio
		if n.Column == main {
			score += 100
		}
		cands = append(cands, outlierCandidate{col: n, ratio: ratio, score: score})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > cfg.MaxOutlierInsights {
		cands = cands[:cfg.MaxOutlierInsights]
	}

	var out []Insight
	var hints []Insight
	for _, c := range cands {
		n := c.col
		out = append(out, Insight{
			ID:       "outlier-" + n.Column,
			Severity: SeverityWarning,
			Column:   n.Column,
			Text: fmt.Sprintf("`%s` has extreme values: the maximum %s is %.1fx the mean (%s).",
				n.Column, format.Number(n.Max), c.ratio, format.Number(n.Mean)),
			Action:    "Check the largest records for entry errors or one-off events before using averages.",
			Questions: questionsFor(kindOutlier, n.Column),
		})
		if n.Negatives > 0 {
			hints = append(hints, Insight{
				ID:       "negative-" + n.Column,
				Severity: SeverityInfo,
				Column:   n.Column,
				Text: fmt.Sprintf("`%s` contains %s negative %s; confirm these are refunds, corrections or errors.",
					n.Column, format.Count(n.Negatives), format.Plural(n.Negatives, "value", "values")),
			})
		}
		if n.Median > 0 && n.Mean/n.Median >= cfg.SkewMeanMedian {
			hints = append(hints, Insight{
				ID:       "skew-" + n.Column,
				Severity: SeverityInfo,
				Column:   n.Column,
				Text: fmt.Sprintf("`%s` is right-skewed: the mean (%s) sits above the median (%s), so the median is the better typical value.",
					n.Column, format.Number(n.Mean), format.Number(n.Median)),
			})
		}
	}
	return append(out, hints...)
}

func dominance(p profile.DatasetProfile, cfg heuristics.Config) []Insight {
	var best *profile.CategoricalProfile
	bestScore := 0.0
	cats := p.Categorical()
	for i := range cats {
		c := cats[i]
		if c.InferredAsIdentifier || c.Unique < 2 || len(c.TopValues) == 0 {
			continue
		}
		share := c.TopValues[0].Percent
		if share < cfg.DominancePct {
			continue
		}
		score := share*2 - float64(c.Unique)
		if best == nil || score > bestScore {
			best, bestScore = &cats[i], score
		}
	}
	if best == nil {
		return nil
	}
	top := best.TopValues[0]
	return []Insight{{
		ID:       "dominance-" + best.Column,
		Severity: SeverityInfo,
		Column:   best.Column,
		Text: fmt.Sprintf("`%s` is dominated by \"%s\", which makes up %s of non-missing values.",
			best.Column, top.Value, format.Percent(top.Percent)),
		Action:    "Segment comparisons may be driven by this one group; consider filtering or weighting.",
		Questions: questionsFor(kindDominance, best.Column),
	}}
}

func dateCoverage(p profile.DatasetProfile, cfg heuristics.Config) []Insight {
	for _, d := range p.Dates() {
		if d.Parsed == 0 {
			continue
		}
		text := fmt.Sprintf("`%s` spans %s to %s (%s) with %s unique dates",
			d.Column, format.Day(d.Min), format.Day(d.Max), format.Days(d.SpanDays()), format.Count(d.Unique))
		if d.Unique >= cfg.TrendMinDates {
			text += ", enough for weekly or monthly trend analysis."
		} else {
			text += ", too few for a reliable weekly or monthly trend."
		}
		return []Insight{{
			ID:        "date-coverage-" + d.Column,
			Severity:  SeverityInfo,
			Column:    d.Column,
			Text:      text,
			Questions: questionsFor(kindTime, d.Column),
		}}
	}
	return nil
}

func headline(p profile.DatasetProfile, kpis []kpi.KPI) []Insight {
	var pick *kpi.KPI
	for i := range kpis {
		if kpis[i].Type == kpi.TypeSum {
			pick = &kpis[i]
			break
		}
	}
	if pick == nil {
		for i := range kpis {
			if kpis[i].Type == kpi.TypeMean {
				pick = &kpis[i]
				break
			}
		}
	}
	if pick == nil {
		return nil
	}
	v, ok := pick.Number()
	if !ok {
		return nil
	}
	var text string
	if pick.Type == kpi.TypeSum {
		text = fmt.Sprintf("Total `%s` is %s across %s rows, a reporting-ready headline figure.", pick.Column, format.Number(v), format.Count(p.RowCount))
	} else {
		text = fmt.Sprintf("Average `%s` is %s per row, a reporting-ready headline figure.", pick.Column, format.Number(v))
	}
	return []Insight{{
		ID:        "headline",
		Severity:  SeverityPositive,
		Column:    pick.Column,
		Text:      text,
		Questions: questionsFor(kindHeadline, pick.Column),
	}}
}

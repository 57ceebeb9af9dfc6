package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/glance-cli/internal/charts"
	"github.com/KaramelBytes/glance-cli/internal/format"
	"github.com/KaramelBytes/glance-cli/internal/insights"
	"github.com/KaramelBytes/glance-cli/internal/profile"
)

const maxSuggested = 8

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	title := safeName(r.Name)
	if r.Name == "" {
		title = "dataset"
	}
	fmt.Fprintf(&b, "# Data profile: %s\n\n", safeVal(title))
	fmt.Fprintf(&b, "Report ID: `%s`\n\n", r.ID)

	b.WriteString("## Dataset summary\n\n")
	kind := r.Meta.FileKind
	if kind == "" {
		kind = "table"
	}
	fmt.Fprintf(&b, "- Source: %s\n", strings.ToUpper(kind))
	fmt.Fprintf(&b, "- Rows: %s\n", format.Count(r.Summary.RowCount))
	fmt.Fprintf(&b, "- Columns: %s\n", format.Count(r.Summary.ColumnCount))
	fmt.Fprintf(&b, "- Missing cells: %s (%s)\n", format.Count(r.Summary.MissingCells), format.Percent(r.Summary.MissingRate))
	fmt.Fprintf(&b, "- Duplicate rows: %s\n", format.Count(r.Summary.DuplicateRows))
	if len(r.Summary.EmptyColumns) > 0 {
		fmt.Fprintf(&b, "- Empty columns: %s\n", joinNames(r.Summary.EmptyColumns))
	}
	if len(r.Summary.ConstantColumns) > 0 {
		fmt.Fprintf(&b, "- Constant columns: %s\n", joinNames(r.Summary.ConstantColumns))
	}
	b.WriteString("\n")

	if len(r.KPIs) > 0 {
		b.WriteString("## Key metrics\n\n| Metric | Value |\n|---|---|\n")
		for _, k := range r.KPIs {
			fmt.Fprintf(&b, "| %s | %s |\n", safeVal(k.Label), safeVal(k.Display()))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Schema\n\n| Column | Kind | Non-missing | Missing | Unique | Details |\n|---|---|---|---|---|---|\n")
	for _, c := range r.Columns {
		st := c.Stats.Stats()
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			safeVal(safeName(c.Name)), c.Kind, format.Count(st.NonMissing),
			format.Percent(st.MissingPct()), format.Count(st.Unique), safeVal(columnDetail(c.Stats)))
	}
	b.WriteString("\n")

	if len(r.Insights) > 0 {
		b.WriteString("## Insights\n\n")
		for _, in := range r.Insights {
			fmt.Fprintf(&b, "- %s %s\n", severityGlyph(in.Severity), in.Text)
			if in.Action != "" {
				fmt.Fprintf(&b, "  - _Next:_ %s\n", in.Action)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Charts) > 0 {
		b.WriteString("## Charts\n\n")
		for _, s := range r.Charts {
			fmt.Fprintf(&b, "### %s\n\n", safeVal(s.Title()))
			writeChart(&b, s)
			b.WriteString("\n")
		}
	}

	if qs := r.SuggestedQuestions(maxSuggested); len(qs) > 0 {
		b.WriteString("## Suggested questions\n\n")
		for _, q := range qs {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func columnDetail(cp profile.ColumnProfile) string {
	switch p := cp.(type) {
	case profile.NumericProfile:
		if p.Parsed == 0 {
			return "no numeric values"
		}
		return fmt.Sprintf("min %s, max %s, mean %s, median %s",
			format.Number(p.Min), format.Number(p.Max), format.Number(p.Mean), format.Number(p.Median))
	case profile.CategoricalProfile:
		if p.InferredAsIdentifier {
			return "identifier (" + p.IdentifierReason + ")"
		}
		return "top: " + topList(p.TopValues, 3)
	case profile.DateProfile:
		if p.Parsed == 0 {
			return "no parseable dates"
		}
		return fmt.Sprintf("%s to %s (%s)", format.Day(p.Min), format.Day(p.Max), format.Days(p.SpanDays()))
	case profile.TextProfile:
		return fmt.Sprintf("avg length %s", format.Number(math.Round(p.AverageLength)))
	default:
		return ""
	}
}

func topList(tv []profile.TopValue, n int) string {
	if len(tv) == 0 {
		return "n/a"
	}
	if len(tv) > n {
		tv = tv[:n]
	}
	parts := make([]string, len(tv))
	for i, v := range tv {
		parts[i] = fmt.Sprintf("%s (%s)", v.Value, format.Percent(v.Percent))
	}
	return strings.Join(parts, ", ")
}

func severityGlyph(s insights.Severity) string {
	switch s {
	case insights.SeverityWarning:
		return "⚠"
	case insights.SeverityPositive:
		return "✓"
	default:
		return "•"
	}
}

func writeChart(b *strings.Builder, s charts.Spec) {
	switch c := s.(type) {
	case charts.Histogram:
		b.WriteString("| Bin | Count |\n|---|---|\n")
		for i, n := range c.Counts {
			fmt.Fprintf(b, "| %s to %s | %s |\n", format.Number(c.Edges[i]), format.Number(c.Edges[i+1]), format.Count(n))
		}
	case charts.Box:
		fmt.Fprintf(b, "- Min %s, Q1 %s, median %s, Q3 %s, max %s\n",
			format.Number(c.Min), format.Number(c.Q1), format.Number(c.Median), format.Number(c.Q3), format.Number(c.Max))
		fmt.Fprintf(b, "- Outliers: %s of %s values\n", format.Count(len(c.Outliers)), format.Count(c.Total))
	case charts.Bar:
		b.WriteString("| Value | Count |\n|---|---|\n")
		for i, l := range c.Labels {
			fmt.Fprintf(b, "| %s | %s |\n", safeVal(l), format.Count(c.Counts[i]))
		}
	case charts.TimeSeries:
		fmt.Fprintf(b, "- %s %s periods\n", format.Count(len(c.Points)), string(c.Granularity))
		if n := len(c.Points); n > 0 {
			first, last := c.Points[0], c.Points[n-1]
			fmt.Fprintf(b, "- %v: %s\n- %v: %s\n", first.X, format.Number(first.Y), last.X, format.Number(last.Y))
		}
	case charts.Scatter:
		fmt.Fprintf(b, "- %s points\n", format.Count(len(c.Points)))
		if c.Correlation != nil {
			fmt.Fprintf(b, "- Pearson r = %.2f\n", *c.Correlation)
		}
	case charts.Correlation:
		for _, p := range strongestPairs(c, 10) {
			fmt.Fprintf(b, "- %s ~ %s: r=%.2f\n", safeName(p.a), safeName(p.b), p.r)
		}
	default:
		b.WriteString("- unsupported chart\n")
	}
}

type corrPair struct {
	a, b string
	r    float64
}

// strongestPairs lists the off-diagonal pairs by |r|, ties by column order.
func strongestPairs(c charts.Correlation, limit int) []corrPair {
	var pairs []corrPair
	for i := 0; i < len(c.Cols); i++ {
		for j := i + 1; j < len(c.Cols); j++ {
			if i < len(c.Matrix) && j < len(c.Matrix[i]) {
				pairs = append(pairs, corrPair{a: c.Cols[i], b: c.Cols[j], r: c.Matrix[i][j]})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].r) > math.Abs(pairs[j].r) })
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func joinNames(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = safeName(n)
	}
	return strings.Join(out, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

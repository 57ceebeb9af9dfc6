package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/glance-cli/internal/charts"
	"github.com/KaramelBytes/glance-cli/internal/format"
	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/insights"
	"github.com/KaramelBytes/glance-cli/internal/kpi"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// NoDateColumn is the fixed answer to time questions on undated data.
const NoDateColumn = "This dataset does not contain a date column, so trends over time cannot be analyzed."

const undetermined = "That could not be determined from this dataset."

// Input bundles everything the engine reads.
type Input struct {
	Meta     table.Meta
	Profile  profile.DatasetProfile
	KPIs     []kpi.KPI
	Charts   []charts.Spec
	Insights []insights.Insight
	Config   heuristics.Config
}

// Answer renders a templated answer. It never fails: missing facets produce a
// plain "could not be determined" sentence.
func Answer(question string, meta table.Meta, p profile.DatasetProfile, kpis []kpi.KPI, specs []charts.Spec, ins []insights.Insight) string {
	return AnswerInput(question, Input{Meta: meta, Profile: p, KPIs: kpis, Charts: specs, Insights: ins, Config: heuristics.Default()})
}

// AnswerInput is Answer with an explicit threshold table.
func AnswerInput(question string, in Input) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			answer = undetermined
		}
	}()
	in.Config = in.Config.Normalize()
	q := Normalize(question)
	intent, phrase := Classify(question)

	switch intent {
	case IntentSummary:
		return summary(in)
	case IntentStandsOut:
		return standsOut(in)
	case IntentMainMetric:
		return mainMetric(in)
	case IntentOutliers:
		return outlierAnswer(in)
	case IntentSkew:
		return skewAnswer(in)
	case IntentExplainColumn, IntentDistribution, IntentTopValues:
		col, ok := ResolveColumn(phrase, in.Profile)
		if !ok {
			return notFound(phrase, in.Profile)
		}
		cp, _ := in.Profile.Column(col)
		switch intent {
		case IntentDistribution:
			return distribution(cp, in)
		case IntentTopValues:
			return topValues(cp)
		default:
			return explain(cp, in)
		}
	case IntentTime:
		return timeAnswer(q, in)
	case IntentKPIGaps:
		return kpiGaps(in)
	case IntentNextSteps:
		return nextSteps(in)
	case IntentNotAnswerable:
		return notAnswerable(in)
	case IntentDataToAdd:
		return dataToAdd(in)
	case IntentExecutive:
		return executive(in)
	}
	return fallback()
}

func notFound(phrase string, p profile.DatasetProfile) string {
	if strings.TrimSpace(phrase) == "" {
		phrase = "(no column named)"
	}
	cols := p.Columns
	suffix := ""
	if len(cols) > 8 {
		cols = cols[:8]
		suffix = ", …"
	}
	return fmt.Sprintf("I couldn't find a matching column for \"%s\". Available columns: %s%s.", phrase, strings.Join(cols, ", "), suffix)
}

func kindBreakdown(p profile.DatasetProfile) string {
	counts := p.KindCounts()
	order := []struct {
		k    infer.Kind
		name string
	}{
		{infer.KindNumeric, "numeric"},
		{infer.KindCategorical, "categorical"},
		{infer.KindDate, "date"},
		{infer.KindText, "text"},
		{infer.KindIdentifier, "identifier"},
	}
	var parts []string
	for _, o := range order {
		if n := counts[o.k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o.name))
		}
	}
	return strings.Join(parts, ", ")
}

func summary(in Input) string {
	var b strings.Builder
	kind := strings.ToUpper(in.Meta.FileKind)
	rows, cols := in.Meta.RowCount, in.Meta.ColumnCount
	if rows == 0 {
		rows = in.Profile.RowCount
	}
	if cols == 0 {
		cols = len(in.Profile.Columns)
	}
	if kind != "" {
		fmt.Fprintf(&b, "This %s dataset has %s rows and %d columns", kind, format.Count(rows), cols)
	} else {
		fmt.Fprintf(&b, "This dataset has %s rows and %d columns", format.Count(rows), cols)
	}
	if kb := kindBreakdown(in.Profile); kb != "" {
		fmt.Fprintf(&b, " (%s)", kb)
	}
	b.WriteString(".")
	if rate, ok := kpi.MissingRate(in.Profile); ok {
		fmt.Fprintf(&b, " %s cells are missing (%s).", format.Count(in.Meta.MissingCount), format.Percent(rate))
	}
	if in.Profile.DuplicateRows > 0 {
		fmt.Fprintf(&b, " It contains %s duplicate rows.", format.Count(in.Profile.DuplicateRows))
	}
	if len(in.Insights) > 0 {
		fmt.Fprintf(&b, " Top observation: %s", in.Insights[0].Text)
	}
	return b.String()
}

func standsOut(in Input) string {
	if len(in.Insights) == 0 {
		return "Nothing stands out strongly: no data-quality warnings or dominant patterns were detected."
	}
	n := min(3, len(in.Insights))
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%d) %s", i+1, in.Insights[i].Text)
	}
	return "What stands out: " + strings.Join(parts, " ")
}

func findKPI(kpis []kpi.KPI, t kpi.Type, col string) (kpi.KPI, bool) {
	for _, k := range kpis {
		if k.Type == t && k.Column == col {
			return k, true
		}
	}
	return kpi.KPI{}, false
}

func mainMetric(in Input) string {
	col, ok := kpi.MainMetric(in.KPIs)
	if !ok {
		return "The main metric could not be determined: no numeric column has enough values and spread to summarize."
	}
	var parts []string
	if k, ok := findKPI(in.KPIs, kpi.TypeSum, col); ok {
		parts = append(parts, "total "+k.Display())
	}
	if k, ok := findKPI(in.KPIs, kpi.TypeMean, col); ok {
		parts = append(parts, "average "+k.Display())
	}
	if k, ok := findKPI(in.KPIs, kpi.TypeRange, col); ok {
		parts = append(parts, "range "+k.Display())
	}
	return fmt.Sprintf("The main metric appears to be `%s`: %s.", col, strings.Join(parts, ", "))
}

func outlierAnswer(in Input) string {
	var parts []string
	for _, i := range in.Insights {
		if strings.HasPrefix(i.ID, "outlier-") {
			parts = append(parts, i.Text)
		}
	}
	for _, s := range in.Charts {
		if b, ok := s.(charts.Box); ok && len(b.Outliers) > 0 {
			parts = append(parts, fmt.Sprintf("The box plot for `%s` flags %s %s outside %s to %s.",
				b.Column, format.Count(len(b.Outliers)), format.Plural(len(b.Outliers), "value", "values"),
				format.Number(b.Q1-1.5*b.IQR), format.Number(b.Q3+1.5*b.IQR)))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if len(in.Profile.Numeric()) == 0 {
		return "Outliers could not be determined because the dataset has no numeric columns."
	}
	return "No strong outliers were detected in the numeric columns."
}

func skewAnswer(in Input) string {
	nums := in.Profile.Numeric()
	if len(nums) == 0 {
		return "Skew could not be determined because the dataset has no numeric columns."
	}
	var parts []string
	for _, n := range nums {
		if n.Parsed < 2 || n.Median <= 0 || n.Mean <= 0 {
			continue
		}
		ratio := n.Mean / n.Median
		switch {
		case ratio >= in.Config.SkewMeanMedian:
			parts = append(parts, fmt.Sprintf("`%s` is right-skewed (mean %s vs median %s).", n.Column, format.Number(n.Mean), format.Number(n.Median)))
		case ratio <= 1/in.Config.SkewMeanMedian:
			parts = append(parts, fmt.Sprintf("`%s` is left-skewed (mean %s vs median %s).", n.Column, format.Number(n.Mean), format.Number(n.Median)))
		}
	}
	if len(parts) == 0 {
		return "None of the numeric columns shows a strong skew; means and medians are close."
	}
	return strings.Join(parts, " ")
}

func relatedInsight(col string, ins []insights.Insight) string {
	for _, i := range ins {
		if i.Column == col {
			return " Note: " + i.Text
		}
	}
	return ""
}

func explain(cp profile.ColumnProfile, in Input) string {
	name := cp.ColumnName()
	c := cp.Stats()
	if c.NonMissing == 0 {
		return fmt.Sprintf("`%s` is empty: all %s values are missing.", name, format.Count(c.Missing))
	}
	var s string
	switch p := cp.(type) {
	case profile.NumericProfile:
		if p.Parsed == 0 {
			return fmt.Sprintf("The statistics for `%s` could not be determined because none of its values parse as numbers.", name)
		}
		s = fmt.Sprintf("`%s` is a numeric column ranging from %s to %s with a mean of %s and a median of %s. It has %s unique values and %s missing.",
			name, format.Number(p.Min), format.Number(p.Max), format.Number(p.Mean), format.Number(p.Median),
			format.Count(p.Unique), format.Count(p.Missing))
	case profile.CategoricalProfile:
		if p.InferredAsIdentifier {
			s = fmt.Sprintf("`%s` looks like an identifier column (%s unique values across %s non-missing rows), so it is excluded from statistics, KPIs and charts.",
				name, format.Count(p.Unique), format.Count(p.NonMissing))
			break
		}
		s = fmt.Sprintf("`%s` is a categorical column with %s unique values", name, format.Count(p.Unique))
		if len(p.TopValues) > 0 {
			s += fmt.Sprintf("; the most common is \"%s\" (%s of non-missing values)", p.TopValues[0].Value, format.Percent(p.TopValues[0].Percent))
		}
		s += fmt.Sprintf(". It has %s missing.", format.Count(p.Missing))
	case profile.DateProfile:
		if p.Parsed == 0 {
			return fmt.Sprintf("The date range of `%s` could not be determined.", name)
		}
		s = fmt.Sprintf("`%s` is a date column spanning %s to %s (%s) with %s unique dates and %s missing.",
			name, format.Day(p.Min), format.Day(p.Max), format.Days(p.SpanDays()), format.Count(p.Unique), format.Count(p.Missing))
	case profile.TextProfile:
		s = fmt.Sprintf("`%s` is a free-text column (average length %.0f characters) with %s unique values and %s missing.",
			name, p.AverageLength, format.Count(p.Unique), format.Count(p.Missing))
	default:
		return undetermined
	}
	return s + relatedInsight(name, in.Insights)
}

func distribution(cp profile.ColumnProfile, in Input) string {
	name := cp.ColumnName()
	switch p := cp.(type) {
	case profile.NumericProfile:
		if p.Parsed == 0 {
			return fmt.Sprintf("The distribution of `%s` could not be determined because none of its values parse as numbers.", name)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "`%s` runs from %s to %s (mean %s, median %s", name, format.Number(p.Min), format.Number(p.Max), format.Number(p.Mean), format.Number(p.Median))
		if p.Stdev != nil {
			fmt.Fprintf(&b, ", standard deviation %s", format.Number(*p.Stdev))
		}
		b.WriteString(").")
		for _, s := range in.Charts {
			switch c := s.(type) {
			case charts.Box:
				if c.Column != name {
					continue
				}
				fmt.Fprintf(&b, " The middle half of values lies between %s and %s.", format.Number(c.Q1), format.Number(c.Q3))
				if len(c.Outliers) > 0 {
					fmt.Fprintf(&b, " %s %s fall outside the box-plot fences.", format.Count(len(c.Outliers)), format.Plural(len(c.Outliers), "value", "values"))
				}
			case charts.Histogram:
				if c.Column != name || len(c.Counts) == 0 {
					continue
				}
				peak := 0
				for i, n := range c.Counts {
					if n > c.Counts[peak] {
						peak = i
					}
				}
				fmt.Fprintf(&b, " The busiest range is %s to %s with %s values.", format.Number(c.Edges[peak]), format.Number(c.Edges[peak+1]), format.Count(c.Counts[peak]))
			}
		}
		return b.String()
	case profile.CategoricalProfile, profile.TextProfile:
		return topValues(cp)
	case profile.DateProfile:
		return explain(cp, in)
	}
	return undetermined
}

func describeTop(tv []profile.TopValue, n int) string {
	n = min(n, len(tv))
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("\"%s\" (%s, %s)", tv[i].Value, format.Count(tv[i].Count), format.Percent(tv[i].Percent))
	}
	return strings.Join(parts, ", ")
}

func topValues(cp profile.ColumnProfile) string {
	name := cp.ColumnName()
	switch p := cp.(type) {
	case profile.CategoricalProfile:
		if len(p.TopValues) == 0 {
			return fmt.Sprintf("The top values of `%s` could not be determined because it has no values.", name)
		}
		if p.InferredAsIdentifier {
			return fmt.Sprintf("`%s` is an identifier column; its %s values are (nearly) all unique, so no value is more common than another.", name, format.Count(p.Unique))
		}
		return fmt.Sprintf("The most common values in `%s` are %s, out of %s unique values.", name, describeTop(p.TopValues, 5), format.Count(p.Unique))
	case profile.TextProfile:
		if len(p.TopValues) == 0 {
			return fmt.Sprintf("The top values of `%s` could not be determined because it has no values.", name)
		}
		return fmt.Sprintf("`%s` is free text with %s unique values; the most repeated are %s.", name, format.Count(p.Unique), describeTop(p.TopValues, 3))
	case profile.NumericProfile:
		if p.Parsed == 0 {
			return fmt.Sprintf("The values of `%s` could not be determined because none parse as numbers.", name)
		}
		return fmt.Sprintf("`%s` is numeric, so it is summarized by range rather than top values: smallest %s, median %s, largest %s.",
			name, format.Number(p.Min), format.Number(p.Median), format.Number(p.Max))
	case profile.DateProfile:
		return fmt.Sprintf("`%s` is a date column with %s unique dates between %s and %s.", name, format.Count(p.Unique), format.Day(p.Min), format.Day(p.Max))
	}
	return undetermined
}

func timeAnswer(q string, in Input) string {
	dates := in.Profile.Dates()
	var series []charts.TimeSeries
	for _, s := range in.Charts {
		if ts, ok := s.(charts.TimeSeries); ok {
			series = append(series, ts)
		}
	}
	if len(dates) == 0 && len(series) == 0 {
		return NoDateColumn
	}

	var b strings.Builder
	spanDays, uniqueDates := 0.0, 0
	if len(dates) > 0 {
		d := dates[0]
		spanDays, uniqueDates = d.SpanDays(), d.Unique
	}
	if len(series) > 0 {
		ts := series[0]
		b.WriteString(describeSeries(ts))
		if len(dates) == 0 {
			uniqueDates = len(ts.Points)
		}
	} else {
		d := dates[0]
		fmt.Fprintf(&b, "`%s` spans %s to %s (%s) with %s unique dates, but no numeric column pairs with it densely enough for a trend chart.",
			d.Column, format.Day(d.Min), format.Day(d.Max), format.Days(d.SpanDays()), format.Count(d.Unique))
	}

	switch {
	case strings.Contains(q, "season"):
		if spanDays >= 730 {
			b.WriteString(" With at least two years of history, seasonal patterns can be compared year over year.")
		} else {
			fmt.Fprintf(&b, " Seasonality cannot be confirmed: at least two full years of dates are needed and this data covers %s.", format.Days(spanDays))
		}
	case strings.Contains(q, "reveal"), strings.Contains(q, "appropriate"), strings.Contains(q, "trend analysis"):
		if uniqueDates >= in.Config.TrendMinDates {
			fmt.Fprintf(&b, " With %s unique dates, the data is suitable for weekly or monthly trend analysis.", format.Count(uniqueDates))
		} else {
			fmt.Fprintf(&b, " With only %s unique dates, trend analysis would be unreliable.", format.Count(uniqueDates))
		}
	}
	return b.String()
}

func describeSeries(ts charts.TimeSeries) string {
	if len(ts.Points) == 0 {
		return fmt.Sprintf("The trend of `%s` over `%s` could not be determined.", ts.YColumn, ts.XColumn)
	}
	first, last := ts.Points[0], ts.Points[len(ts.Points)-1]
	hi, lo := first, first
	for _, pt := range ts.Points {
		if pt.Y > hi.Y {
			hi = pt
		}
		if pt.Y < lo.Y {
			lo = pt
		}
	}
	direction := "roughly flat"
	switch {
	case last.Y > first.Y*1.05:
		direction = "rising"
	case last.Y < first.Y*0.95:
		direction = "falling"
	}
	return fmt.Sprintf("`%s` by %s over `%s` covers %d periods from %v to %v and is %s overall; the highest period is %v (%s) and the lowest is %v (%s).",
		ts.YColumn, ts.Granularity, ts.XColumn, len(ts.Points), first.X, last.X, direction,
		hi.X, format.Number(hi.Y), lo.X, format.Number(lo.Y))
}

func kpiGaps(in Input) string {
	var have []string
	for _, k := range in.KPIs {
		have = append(have, fmt.Sprintf("%s (%s)", k.Label, k.Display()))
	}
	var gaps []string
	if len(in.Profile.Dates()) == 0 {
		gaps = append(gaps, "no time-based KPI because there is no date column")
	}
	if _, ok := kpi.MainMetric(in.KPIs); !ok {
		gaps = append(gaps, "no numeric total or average because no numeric column qualifies")
	}
	hasTop := false
	for _, k := range in.KPIs {
		if k.Type == kpi.TypeTop {
			hasTop = true
		}
	}
	if !hasTop {
		gaps = append(gaps, "no segment KPI because no categorical column qualifies or the KPI strip is full")
	}
	var b strings.Builder
	if len(have) > 0 {
		fmt.Fprintf(&b, "Current KPIs: %s.", strings.Join(have, "; "))
	} else {
		b.WriteString("No KPIs could be determined.")
	}
	if len(gaps) == 0 {
		b.WriteString(" Every core KPI type is covered.")
	} else {
		fmt.Fprintf(&b, " Gaps: %s.", strings.Join(gaps, "; "))
	}
	return b.String()
}

func nextSteps(in Input) string {
	seen := map[string]struct{}{}
	var steps []string
	for _, i := range in.Insights {
		if i.Action == "" {
			continue
		}
		if _, ok := seen[i.Action]; ok {
			continue
		}
		seen[i.Action] = struct{}{}
		steps = append(steps, i.Action)
		if len(steps) == 3 {
			break
		}
	}
	if len(steps) == 0 {
		return "Suggested next steps: review the charts for the main metric, break it down by the leading category, and add a date column if you need trends."
	}
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%d) %s", i+1, s)
	}
	return "Suggested next steps: " + strings.Join(parts, " ")
}

func notAnswerable(in Input) string {
	return fmt.Sprintf("This first-look profile cannot explain why something happened, forecast future values, or combine other datasets; it only describes the %s rows and %d columns provided.",
		format.Count(in.Profile.RowCount), len(in.Profile.Columns))
}

func dataToAdd(in Input) string {
	var adds []string
	if len(in.Profile.Dates()) == 0 {
		adds = append(adds, "a date or timestamp column to unlock trends")
	}
	if len(in.Profile.Numeric()) == 0 {
		adds = append(adds, "a numeric measure such as revenue or quantity")
	}
	hasCat := false
	for _, c := range in.Profile.Categorical() {
		if !c.InferredAsIdentifier && c.NonMissing > 0 {
			hasCat = true
		}
	}
	if !hasCat {
		adds = append(adds, "a category such as region or product to segment results")
	}
	var sparse []string
	for _, cp := range in.Profile.Ordered() {
		c := cp.Stats()
		if c.NonMissing > 0 && c.MissingPct() >= in.Config.MissingWarnPct {
			sparse = append(sparse, "`"+cp.ColumnName()+"`")
		}
	}
	sort.Strings(sparse)
	if len(sparse) > 0 {
		adds = append(adds, "fuller values for "+strings.Join(sparse, ", "))
	}
	if len(adds) == 0 {
		return "The dataset already covers dates, measures and categories; more history or a target/budget column would enable comparisons against plan."
	}
	return "Consider adding " + strings.Join(adds, "; ") + "."
}

func executive(in Input) string {
	var b strings.Builder
	b.WriteString("Executive summary:")
	headline := ""
	risk := ""
	for _, i := range in.Insights {
		if headline == "" && i.Severity == insights.SeverityPositive {
			headline = i.Text
		}
		if risk == "" && i.Severity == insights.SeverityWarning {
			risk = i.Text
		}
	}
	if headline != "" {
		b.WriteString(" " + headline)
	} else {
		fmt.Fprintf(&b, " the dataset has %s rows across %d columns.", format.Count(in.Profile.RowCount), len(in.Profile.Columns))
	}
	if risk != "" {
		b.WriteString(" Key risk: " + risk)
	} else {
		b.WriteString(" No data-quality warnings were raised.")
	}
	return b.String()
}

func fallback() string {
	return "I can summarize the data, explain a column (\"explain <column>\"), describe distributions, top values, outliers, skew and trends, or suggest next steps. Try \"summary\" or \"explain <column>\"."
}

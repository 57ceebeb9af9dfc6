package charts

import (
	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// roles splits columns into chart roles. Identifier columns are in none.
type roles struct {
	numeric     []string
	dates       []string
	categorical []string
}

// assignRoles picks numeric, date and categorical columns for charting.
// Non-numeric, non-date columns are re-scanned on a bounded row sample so
// dates and numbers mistyped upstream still get charts.
func assignRoles(rows []table.Row, p profile.DatasetProfile, cfg heuristics.Config) roles {
	var r roles
	var rest []string
	for _, cp := range p.Ordered() {
		name := cp.ColumnName()
		switch c := cp.(type) {
		case profile.NumericProfile:
			if !infer.IdentifierLike(name, c.Unique, c.NonMissing, c.IntegerLike, c.Range(), cfg) {
				r.numeric = append(r.numeric, name)
			}
		case profile.DateProfile:
			r.dates = append(r.dates, name)
		case profile.CategoricalProfile:
			if c.InferredAsIdentifier || c.NonMissing == 0 {
				continue
			}
			rest = append(rest, name)
		case profile.TextProfile:
			if c.NonMissing == 0 {
				continue
			}
			rest = append(rest, name)
		}
	}

	sample := rows
	if len(sample) > cfg.SampleSize {
		sample = sample[:cfg.SampleSize]
	}
	columnSample := func(col string) []any {
		vals := make([]any, len(sample))
		for i, row := range sample {
			vals[i] = row[col]
		}
		return vals
	}
	isDate := func(v any) bool { _, ok := infer.ParseDate(v); return ok }
	isNumber := func(v any) bool { _, ok := infer.ParseNumber(v); return ok }

	for _, name := range rest {
		vals := columnSample(name)
		if infer.FallbackShare(vals, cfg.SampleSize, isDate) >= cfg.FallbackDateShare {
			r.dates = append(r.dates, name)
			continue
		}
		if infer.FallbackShare(vals, cfg.SampleSize, isNumber) >= cfg.FallbackNumericShare {
			if !infer.NameSuggestsIdentifier(name) {
				r.numeric = append(r.numeric, name)
			}
			continue
		}
		r.categorical = append(r.categorical, name)
	}
	return r
}

// numericValues returns the parsed values of col in row order.
func numericValues(rows []table.Row, col string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if x, ok := infer.ParseNumber(r[col]); ok {
			out = append(out, x)
		}
	}
	return out
}

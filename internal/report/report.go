// Package report runs the profiling pipeline over a table and renders the
// result.
package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/glance-cli/internal/charts"
	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/infer"
	"github.com/KaramelBytes/glance-cli/internal/insights"
	"github.com/KaramelBytes/glance-cli/internal/kpi"
	"github.com/KaramelBytes/glance-cli/internal/profile"
	"github.com/KaramelBytes/glance-cli/internal/query"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Column is one schema entry in column order.
type Column struct {
	Name  string                `json:"name" yaml:"name"`
	Kind  infer.Kind            `json:"kind" yaml:"kind"`
	Stats profile.ColumnProfile `json:"stats" yaml:"stats"`
}

// Summary holds the dataset-level facts.
type Summary struct {
	RowCount        int      `json:"rowCount" yaml:"row_count"`
	ColumnCount     int      `json:"columnCount" yaml:"column_count"`
	MissingCells    int      `json:"missingCells" yaml:"missing_cells"`
	MissingRate     float64  `json:"missingRate" yaml:"missing_rate"`
	DuplicateRows   int      `json:"duplicateRows" yaml:"duplicate_rows"`
	EmptyColumns    []string `json:"emptyColumns" yaml:"empty_columns"`
	ConstantColumns []string `json:"constantColumns" yaml:"constant_columns"`
}

// Report is the full analysis of one table.
type Report struct {
	// ID is derived from the table content, so identical input yields the same ID.
	ID       string             `json:"id" yaml:"id"`
	Name     string             `json:"name,omitempty" yaml:"name,omitempty"`
	Meta     table.Meta         `json:"meta" yaml:"meta"`
	Summary  Summary            `json:"summary" yaml:"summary"`
	Columns  []Column           `json:"columns" yaml:"columns"`
	KPIs     []kpi.KPI          `json:"kpis" yaml:"kpis"`
	Charts   []charts.Spec      `json:"charts" yaml:"charts"`
	Insights []insights.Insight `json:"insights" yaml:"insights"`

	Profile profile.DatasetProfile `json:"-" yaml:"-"`
	cfg     heuristics.Config
}

// Analyze profiles t, then builds KPIs and charts concurrently and finally
// insights. A zero meta is computed from t.
func Analyze(ctx context.Context, t table.Table, meta table.Meta, cfg heuristics.Config) (*Report, error) {
	cfg = cfg.Normalize()
	if meta == (table.Meta{}) {
		meta = t.Meta()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := profile.ProfileTable(t, cfg)

	var kpis []kpi.KPI
	var specs []charts.Spec
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		kpis = kpi.Select(t.Rows, p, cfg)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		specs = charts.Generate(t.Rows, p, cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	ins := insights.Generate(p, kpis, cfg)

	r := &Report{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(profile.Fingerprint(t))).String(),
		Name:     t.Name,
		Meta:     meta,
		Summary:  summarize(p, meta),
		KPIs:     kpis,
		Charts:   specs,
		Insights: ins,
		Profile:  p,
		cfg:      cfg,
	}
	for _, cp := range p.Ordered() {
		r.Columns = append(r.Columns, Column{Name: cp.ColumnName(), Kind: cp.Kind(), Stats: cp})
	}
	if r.KPIs == nil {
		r.KPIs = []kpi.KPI{}
	}
	if r.Charts == nil {
		r.Charts = []charts.Spec{}
	}
	if r.Insights == nil {
		r.Insights = []insights.Insight{}
	}
	return r, nil
}

func summarize(p profile.DatasetProfile, meta table.Meta) Summary {
	rate, _ := kpi.MissingRate(p)
	return Summary{
		RowCount:        p.RowCount,
		ColumnCount:     len(p.Columns),
		MissingCells:    meta.MissingCount,
		MissingRate:     rate,
		DuplicateRows:   p.DuplicateRows,
		EmptyColumns:    p.EmptyColumns,
		ConstantColumns: p.ConstantColumns,
	}
}

// Ask answers a free-text question about the analyzed table.
func (r *Report) Ask(question string) string {
	return query.AnswerInput(question, query.Input{
		Meta:     r.Meta,
		Profile:  r.Profile,
		KPIs:     r.KPIs,
		Charts:   r.Charts,
		Insights: r.Insights,
		Config:   r.cfg,
	})
}

// SuggestedQuestions collects follow-up questions from the insights, in
// insight order without repeats.
func (r *Report) SuggestedQuestions(limit int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, in := range r.Insights {
		for _, q := range in.Questions {
			if _, ok := seen[q]; ok {
				continue
			}
			seen[q] = struct{}{}
			out = append(out, q)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

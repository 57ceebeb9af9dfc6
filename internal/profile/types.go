package profile

import (
	"math"
	"time"

	"github.com/KaramelBytes/glance-cli/internal/infer"
)

// Counts are shared by every column profile. Unique is over non-missing values.
type Counts struct {
	Missing    int `json:"missing" yaml:"missing"`
	Unique     int `json:"unique" yaml:"unique"`
	NonMissing int `json:"nonMissing" yaml:"non_missing"`
}

// MissingPct is missing / (missing + nonMissing) in percent.
func (c Counts) MissingPct() float64 {
	total := c.Missing + c.NonMissing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100 / float64(total)
}

// UniqueRatio is unique / nonMissing.
func (c Counts) UniqueRatio() float64 {
	if c.NonMissing == 0 {
		return 0
	}
	return float64(c.Unique) / float64(c.NonMissing)
}

// ColumnProfile is one of NumericProfile, CategoricalProfile, DateProfile or
// TextProfile.
type ColumnProfile interface {
	ColumnName() string
	Kind() infer.Kind
	Stats() Counts
	sealed()
}

// TopValue is a ranked category. Percent is relative to non-missing values.
type TopValue struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

type NumericProfile struct {
	Column string `json:"column" yaml:"column"`
	Counts `yaml:",inline"`
	// Parsed is the number of non-missing cells that parsed as numbers.
	Parsed      int      `json:"parsed" yaml:"parsed"`
	Min         float64  `json:"min" yaml:"min"`
	Max         float64  `json:"max" yaml:"max"`
	// Sum is nil when the total does not fit in a float64.
	Sum         *float64 `json:"sum" yaml:"sum"`
	Mean        float64  `json:"mean" yaml:"mean"`
	Median      float64  `json:"median" yaml:"median"`
	Stdev       *float64 `json:"stdev" yaml:"stdev"`
	Zeros       int      `json:"zeros" yaml:"zeros"`
	Negatives   int      `json:"negatives" yaml:"negatives"`
	IntegerLike bool     `json:"integerLike" yaml:"integer_like"`
}

func (p NumericProfile) ColumnName() string { return p.Column }
func (p NumericProfile) Kind() infer.Kind   { return infer.KindNumeric }
func (p NumericProfile) Stats() Counts      { return p.Counts }
func (NumericProfile) sealed()              {}

// Range is max - min, clamped to the largest float64 when it overflows.
func (p NumericProfile) Range() float64 {
	r := p.Max - p.Min
	if math.IsInf(r, 1) {
		return math.MaxFloat64
	}
	return r
}

// Spread is the sample stdev when defined, else the range.
func (p NumericProfile) Spread() float64 {
	if p.Stdev != nil {
		return *p.Stdev
	}
	return p.Range()
}

type CategoricalProfile struct {
	Column               string     `json:"column" yaml:"column"`
	Counts               `yaml:",inline"`
	TopValues            []TopValue `json:"topValues" yaml:"top_values"`
	InferredAsIdentifier bool       `json:"inferredAsIdentifier,omitempty" yaml:"inferred_as_identifier,omitempty"`
	IdentifierReason     string     `json:"identifierReason,omitempty" yaml:"identifier_reason,omitempty"`
}

func (p CategoricalProfile) ColumnName() string { return p.Column }
func (p CategoricalProfile) Kind() infer.Kind {
	if p.InferredAsIdentifier {
		return infer.KindIdentifier
	}
	return infer.KindCategorical
}
func (p CategoricalProfile) Stats() Counts { return p.Counts }
func (CategoricalProfile) sealed()         {}

// TopShare is the top value's fraction of non-missing values.
func (p CategoricalProfile) TopShare() float64 {
	if len(p.TopValues) == 0 {
		return 0
	}
	return p.TopValues[0].Percent / 100
}

type DateProfile struct {
	Column string `json:"column" yaml:"column"`
	Counts `yaml:",inline"`
	Parsed int       `json:"parsed" yaml:"parsed"`
	Min    time.Time `json:"min" yaml:"min"`
	Max    time.Time `json:"max" yaml:"max"`
}

func (p DateProfile) ColumnName() string { return p.Column }
func (p DateProfile) Kind() infer.Kind   { return infer.KindDate }
func (p DateProfile) Stats() Counts      { return p.Counts }
func (DateProfile) sealed()              {}

// SpanDays is the whole-day distance between min and max.
func (p DateProfile) SpanDays() float64 {
	if p.Parsed == 0 {
		return 0
	}
	return p.Max.Sub(p.Min).Hours() / 24
}

// MinISO and MaxISO render the bounds as ISO-8601 UTC timestamps.
func (p DateProfile) MinISO() string { return isoTime(p.Min) }
func (p DateProfile) MaxISO() string { return isoTime(p.Max) }

func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type TextProfile struct {
	Column        string     `json:"column" yaml:"column"`
	Counts        `yaml:",inline"`
	AverageLength float64    `json:"averageLength" yaml:"average_length"`
	TopValues     []TopValue `json:"topValues" yaml:"top_values"`
}

func (p TextProfile) ColumnName() string { return p.Column }
func (p TextProfile) Kind() infer.Kind   { return infer.KindText }
func (p TextProfile) Stats() Counts      { return p.Counts }
func (TextProfile) sealed()              {}

// DatasetProfile is the dataset- and column-level summary.
type DatasetProfile struct {
	RowCount        int                      `json:"rowCount" yaml:"row_count"`
	Columns         []string                 `json:"columns" yaml:"columns"`
	DuplicateRows   int                      `json:"duplicateRows" yaml:"duplicate_rows"`
	EmptyColumns    []string                 `json:"emptyColumns" yaml:"empty_columns"`
	ConstantColumns []string                 `json:"constantColumns" yaml:"constant_columns"`
	Profiles        map[string]ColumnProfile `json:"profiles" yaml:"profiles"`
}

// Column looks up one column profile.
func (d DatasetProfile) Column(name string) (ColumnProfile, bool) {
	p, ok := d.Profiles[name]
	return p, ok
}

// Ordered returns the column profiles in canonical column order.
func (d DatasetProfile) Ordered() []ColumnProfile {
	out := make([]ColumnProfile, 0, len(d.Columns))
	for _, c := range d.Columns {
		if p, ok := d.Profiles[c]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Numeric returns numeric profiles in column order.
func (d DatasetProfile) Numeric() []NumericProfile {
	var out []NumericProfile
	for _, p := range d.Ordered() {
		if n, ok := p.(NumericProfile); ok {
			out = append(out, n)
		}
	}
	return out
}

// Dates returns date profiles in column order.
func (d DatasetProfile) Dates() []DateProfile {
	var out []DateProfile
	for _, p := range d.Ordered() {
		if n, ok := p.(DateProfile); ok {
			out = append(out, n)
		}
	}
	return out
}

// Categorical returns categorical profiles in column order, identifiers included.
func (d DatasetProfile) Categorical() []CategoricalProfile {
	var out []CategoricalProfile
	for _, p := range d.Ordered() {
		if n, ok := p.(CategoricalProfile); ok {
			out = append(out, n)
		}
	}
	return out
}

// KindCounts tallies columns by inferred kind.
func (d DatasetProfile) KindCounts() map[infer.Kind]int {
	out := map[infer.Kind]int{}
	for _, p := range d.Profiles {
		out[p.Kind()]++
	}
	return out
}

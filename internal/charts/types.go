// Package charts builds scored chart specifications from rows and a profile
// and picks a balanced subset of them.
package charts

// Type is the chart kind.
type Type string

const (
	TypeHistogram   Type = "histogram"
	TypeBox         Type = "box"
	TypeBar         Type = "bar"
	TypeTime        Type = "time"
	TypeScatter     Type = "scatter"
	TypeCorrelation Type = "correlation"
)

// Purpose groups chart types for diversity selection. It is not rendered.
type Purpose string

const (
	PurposeDistribution Purpose = "distribution"
	PurposeComposition  Purpose = "composition"
	PurposeTrend        Purpose = "trend"
	PurposeRelationship Purpose = "relationship"
)

// Granularity of a time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Spec is one of Histogram, Box, Bar, TimeSeries, Scatter or Correlation.
// Renderers treat it as plain data.
type Spec interface {
	ChartType() Type
	Title() string
	Columns() []string
	sealed()
}

type Histogram struct {
	Type     Type      `json:"type" yaml:"type"`
	Column   string    `json:"column" yaml:"column"`
	BinCount int       `json:"binCount" yaml:"bin_count"`
	Edges    []float64 `json:"edges" yaml:"edges"`
	Counts   []int     `json:"counts" yaml:"counts"`
	Min      float64   `json:"min" yaml:"min"`
	Max      float64   `json:"max" yaml:"max"`
	Total    int       `json:"total" yaml:"total"`
}

func (h Histogram) ChartType() Type   { return TypeHistogram }
func (h Histogram) Title() string     { return "Distribution of " + h.Column }
func (h Histogram) Columns() []string { return []string{h.Column} }
func (Histogram) sealed()             {}

type Box struct {
	Type     Type      `json:"type" yaml:"type"`
	Column   string    `json:"column" yaml:"column"`
	Min      float64   `json:"min" yaml:"min"`
	Q1       float64   `json:"q1" yaml:"q1"`
	Median   float64   `json:"median" yaml:"median"`
	Q3       float64   `json:"q3" yaml:"q3"`
	Max      float64   `json:"max" yaml:"max"`
	IQR      float64   `json:"iqr" yaml:"iqr"`
	Outliers []float64 `json:"outliers" yaml:"outliers"`
	Total    int       `json:"total" yaml:"total"`
}

func (b Box) ChartType() Type   { return TypeBox }
func (b Box) Title() string     { return "Spread and outliers of " + b.Column }
func (b Box) Columns() []string { return []string{b.Column} }
func (Box) sealed()             {}

type Bar struct {
	Type    Type     `json:"type" yaml:"type"`
	Column  string   `json:"column" yaml:"column"`
	Labels  []string `json:"labels" yaml:"labels"`
	Counts  []int    `json:"counts" yaml:"counts"`
	MaxBars int      `json:"maxBars" yaml:"max_bars"`
}

func (b Bar) ChartType() Type   { return TypeBar }
func (b Bar) Title() string     { return "Breakdown by " + b.Column }
func (b Bar) Columns() []string { return []string{b.Column} }
func (Bar) sealed()             {}

// Point is an (x, y) pair. For time series X is an ISO-like period string.
type Point struct {
	X any     `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type TimeSeries struct {
	Type        Type        `json:"type" yaml:"type"`
	XColumn     string      `json:"xColumn" yaml:"x_column"`
	YColumn     string      `json:"yColumn" yaml:"y_column"`
	Granularity Granularity `json:"granularity" yaml:"granularity"`
	Points      []Point     `json:"points" yaml:"points"`
}

func (t TimeSeries) ChartType() Type   { return TypeTime }
func (t TimeSeries) Title() string     { return t.YColumn + " over " + t.XColumn + " (by " + string(t.Granularity) + ")" }
func (t TimeSeries) Columns() []string { return []string{t.XColumn, t.YColumn} }
func (TimeSeries) sealed()             {}

type Scatter struct {
	Type        Type     `json:"type" yaml:"type"`
	XColumn     string   `json:"xColumn" yaml:"x_column"`
	YColumn     string   `json:"yColumn" yaml:"y_column"`
	Points      []Point  `json:"points" yaml:"points"`
	Correlation *float64 `json:"correlation" yaml:"correlation"`
}

func (s Scatter) ChartType() Type   { return TypeScatter }
func (s Scatter) Title() string     { return s.YColumn + " vs " + s.XColumn }
func (s Scatter) Columns() []string { return []string{s.XColumn, s.YColumn} }
func (Scatter) sealed()             {}

type Correlation struct {
	Type   Type        `json:"type" yaml:"type"`
	Cols   []string    `json:"columns" yaml:"columns"`
	Matrix [][]float64 `json:"matrix" yaml:"matrix"`
}

func (c Correlation) ChartType() Type   { return TypeCorrelation }
func (c Correlation) Title() string     { return "Correlation between numeric columns" }
func (c Correlation) Columns() []string { return c.Cols }
func (Correlation) sealed()             {}

// Candidate is a scored spec before diversity selection.
type Candidate struct {
	Spec    Spec
	Score   float64
	Purpose Purpose
}

// PurposeOf maps a chart type to its selection purpose.
func PurposeOf(t Type) Purpose {
	switch t {
	case TypeHistogram, TypeBox:
		return PurposeDistribution
	case TypeBar:
		return PurposeComposition
	case TypeTime:
		return PurposeTrend
	default:
		return PurposeRelationship
	}
}

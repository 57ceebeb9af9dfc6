// Package heuristics holds every tunable threshold used by the profiling pipeline.
//
// The values are grouped by the stage that reads them. Tags let the table be
// loaded from the global config file (key prefix "heuristics").
package heuristics

// Config is the single threshold table shared by inference, profiling, KPIs,
// charts and insights.
type Config struct {
	// Sampling
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size" json:"sample_size"`

	// Type inference
	NumericShare float64 `mapstructure:"numeric_share" yaml:"numeric_share" json:"numeric_share"`
	DateShare    float64 `mapstructure:"date_share" yaml:"date_share" json:"date_share"`
	TextAvgLen   float64 `mapstructure:"text_avg_len" yaml:"text_avg_len" json:"text_avg_len"`

	// Identifier detection (content heuristic)
	IDMinSamples       int     `mapstructure:"id_min_samples" yaml:"id_min_samples" json:"id_min_samples"`
	IDRejectParseShare float64 `mapstructure:"id_reject_parse_share" yaml:"id_reject_parse_share" json:"id_reject_parse_share"`
	IDUniqueRatio      float64 `mapstructure:"id_unique_ratio" yaml:"id_unique_ratio" json:"id_unique_ratio"`
	IDTokenShare       float64 `mapstructure:"id_token_share" yaml:"id_token_share" json:"id_token_share"`
	IDMaxAvgLen        float64 `mapstructure:"id_max_avg_len" yaml:"id_max_avg_len" json:"id_max_avg_len"`
	IDLongTokenShare   float64 `mapstructure:"id_long_token_share" yaml:"id_long_token_share" json:"id_long_token_share"`
	IDLongTokenLen     int     `mapstructure:"id_long_token_len" yaml:"id_long_token_len" json:"id_long_token_len"`

	// Identifier detection (numeric sequences)
	NumericIDUniqueRatio float64 `mapstructure:"numeric_id_unique_ratio" yaml:"numeric_id_unique_ratio" json:"numeric_id_unique_ratio"`
	SequenceSample       int     `mapstructure:"sequence_sample" yaml:"sequence_sample" json:"sequence_sample"`
	SequenceIncreasing   float64 `mapstructure:"sequence_increasing" yaml:"sequence_increasing" json:"sequence_increasing"`
	SequenceStepCV       float64 `mapstructure:"sequence_step_cv" yaml:"sequence_step_cv" json:"sequence_step_cv"`
	// IndexRangeSlack bounds (range+1)/unique for the index-like rule. A tightly
	// packed integer score column can trip it; raise with care.
	IndexRangeSlack float64 `mapstructure:"index_range_slack" yaml:"index_range_slack" json:"index_range_slack"`

	// Chart-side identifier filter
	IDLikeMinUnique   int     `mapstructure:"id_like_min_unique" yaml:"id_like_min_unique" json:"id_like_min_unique"`
	IDLikeUniqueRatio float64 `mapstructure:"id_like_unique_ratio" yaml:"id_like_unique_ratio" json:"id_like_unique_ratio"`

	// Name-list detection
	NameListMinUnique   int     `mapstructure:"name_list_min_unique" yaml:"name_list_min_unique" json:"name_list_min_unique"`
	NameListUniqueRatio float64 `mapstructure:"name_list_unique_ratio" yaml:"name_list_unique_ratio" json:"name_list_unique_ratio"`
	NameListMaxTopShare float64 `mapstructure:"name_list_max_top_share" yaml:"name_list_max_top_share" json:"name_list_max_top_share"`

	// Profile
	TopValues int `mapstructure:"top_values" yaml:"top_values" json:"top_values"`

	// KPIs
	MaxKPIs int `mapstructure:"max_kpis" yaml:"max_kpis" json:"max_kpis"`

	// Charts
	FallbackDateShare    float64 `mapstructure:"fallback_date_share" yaml:"fallback_date_share" json:"fallback_date_share"`
	FallbackNumericShare float64 `mapstructure:"fallback_numeric_share" yaml:"fallback_numeric_share" json:"fallback_numeric_share"`
	MinHistogramValues   int     `mapstructure:"min_histogram_values" yaml:"min_histogram_values" json:"min_histogram_values"`
	MinBoxValues         int     `mapstructure:"min_box_values" yaml:"min_box_values" json:"min_box_values"`
	MaxBars              int     `mapstructure:"max_bars" yaml:"max_bars" json:"max_bars"`
	MinTimePairs         int     `mapstructure:"min_time_pairs" yaml:"min_time_pairs" json:"min_time_pairs"`
	MinTimePeriods       int     `mapstructure:"min_time_periods" yaml:"min_time_periods" json:"min_time_periods"`
	DailySpanDays        float64 `mapstructure:"daily_span_days" yaml:"daily_span_days" json:"daily_span_days"`
	MinScatterPairs      int     `mapstructure:"min_scatter_pairs" yaml:"min_scatter_pairs" json:"min_scatter_pairs"`
	MaxScatterPoints     int     `mapstructure:"max_scatter_points" yaml:"max_scatter_points" json:"max_scatter_points"`
	MinCorrColumns       int     `mapstructure:"min_corr_columns" yaml:"min_corr_columns" json:"min_corr_columns"`
	MaxCorrColumns       int     `mapstructure:"max_corr_columns" yaml:"max_corr_columns" json:"max_corr_columns"`
	MinCorrRows          int     `mapstructure:"min_corr_rows" yaml:"min_corr_rows" json:"min_corr_rows"`
	MinCharts            int     `mapstructure:"min_charts" yaml:"min_charts" json:"min_charts"`
	MaxCharts            int     `mapstructure:"max_charts" yaml:"max_charts" json:"max_charts"`
	PurposeCap           int     `mapstructure:"purpose_cap" yaml:"purpose_cap" json:"purpose_cap"`

	// Insights
	MaxInsights        int     `mapstructure:"max_insights" yaml:"max_insights" json:"max_insights"`
	MissingInfoPct     float64 `mapstructure:"missing_info_pct" yaml:"missing_info_pct" json:"missing_info_pct"`
	MissingWarnPct     float64 `mapstructure:"missing_warn_pct" yaml:"missing_warn_pct" json:"missing_warn_pct"`
	OutlierMaxMean     float64 `mapstructure:"outlier_max_mean" yaml:"outlier_max_mean" json:"outlier_max_mean"`
	MaxOutlierInsights int     `mapstructure:"max_outlier_insights" yaml:"max_outlier_insights" json:"max_outlier_insights"`
	SkewMeanMedian     float64 `mapstructure:"skew_mean_median" yaml:"skew_mean_median" json:"skew_mean_median"`
	DominancePct       float64 `mapstructure:"dominance_pct" yaml:"dominance_pct" json:"dominance_pct"`
	TrendMinDates      int     `mapstructure:"trend_min_dates" yaml:"trend_min_dates" json:"trend_min_dates"`
	ListedColumns      int     `mapstructure:"listed_columns" yaml:"listed_columns" json:"listed_columns"`
}

// Default returns the stock threshold table.
func Default() Config {
	return Config{
		SampleSize: 250,

		NumericShare: 0.8,
		DateShare:    0.8,
		TextAvgLen:   30,

		IDMinSamples:       20,
		IDRejectParseShare: 0.85,
		IDUniqueRatio:      0.9,
		IDTokenShare:       0.6,
		IDMaxAvgLen:        24,
		IDLongTokenShare:   0.6,
		IDLongTokenLen:     6,

		NumericIDUniqueRatio: 0.98,
		SequenceSample:       50,
		SequenceIncreasing:   0.95,
		SequenceStepCV:       0.25,
		IndexRangeSlack:      1.1,

		IDLikeMinUnique:   20,
		IDLikeUniqueRatio: 0.98,

		NameListMinUnique:   50,
		NameListUniqueRatio: 0.5,
		NameListMaxTopShare: 0.4,

		TopValues: 8,

		MaxKPIs: 6,

		FallbackDateShare:    0.7,
		FallbackNumericShare: 0.85,
		MinHistogramValues:   12,
		MinBoxValues:         12,
		MaxBars:              10,
		MinTimePairs:         20,
		MinTimePeriods:       8,
		DailySpanDays:        90,
		MinScatterPairs:      30,
		MaxScatterPoints:     1200,
		MinCorrColumns:       4,
		MaxCorrColumns:       10,
		MinCorrRows:          40,
		MinCharts:            4,
		MaxCharts:            8,
		PurposeCap:           2,

		MaxInsights:        6,
		MissingInfoPct:     25,
		MissingWarnPct:     40,
		OutlierMaxMean:     3,
		MaxOutlierInsights: 2,
		SkewMeanMedian:     1.1,
		DominancePct:       70,
		TrendMinDates:      30,
		ListedColumns:      4,
	}
}

// Normalize fills zero-valued fields from Default so a partially specified
// table (e.g. from a config file) stays usable.
func (c Config) Normalize() Config {
	d := Default()
	fillInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fillFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fillInt(&c.SampleSize, d.SampleSize)
	fillFloat(&c.NumericShare, d.NumericShare)
	fillFloat(&c.DateShare, d.DateShare)
	fillFloat(&c.TextAvgLen, d.TextAvgLen)
	fillInt(&c.IDMinSamples, d.IDMinSamples)
	fillFloat(&c.IDRejectParseShare, d.IDRejectParseShare)
	fillFloat(&c.IDUniqueRatio, d.IDUniqueRatio)
	fillFloat(&c.IDTokenShare, d.IDTokenShare)
	fillFloat(&c.IDMaxAvgLen, d.IDMaxAvgLen)
	fillFloat(&c.IDLongTokenShare, d.IDLongTokenShare)
	fillInt(&c.IDLongTokenLen, d.IDLongTokenLen)
	fillFloat(&c.NumericIDUniqueRatio, d.NumericIDUniqueRatio)
	fillInt(&c.SequenceSample, d.SequenceSample)
	fillFloat(&c.SequenceIncreasing, d.SequenceIncreasing)
	fillFloat(&c.SequenceStepCV, d.SequenceStepCV)
	fillFloat(&c.IndexRangeSlack, d.IndexRangeSlack)
	fillInt(&c.IDLikeMinUnique, d.IDLikeMinUnique)
	fillFloat(&c.IDLikeUniqueRatio, d.IDLikeUniqueRatio)
	fillInt(&c.NameListMinUnique, d.NameListMinUnique)
	fillFloat(&c.NameListUniqueRatio, d.NameListUniqueRatio)
	fillFloat(&c.NameListMaxTopShare, d.NameListMaxTopShare)
	fillInt(&c.TopValues, d.TopValues)
	fillInt(&c.MaxKPIs, d.MaxKPIs)
	fillFloat(&c.FallbackDateShare, d.FallbackDateShare)
	fillFloat(&c.FallbackNumericShare, d.FallbackNumericShare)
	fillInt(&c.MinHistogramValues, d.MinHistogramValues)
	fillInt(&c.MinBoxValues, d.MinBoxValues)
	fillInt(&c.MaxBars, d.MaxBars)
	fillInt(&c.MinTimePairs, d.MinTimePairs)
	fillInt(&c.MinTimePeriods, d.MinTimePeriods)
	fillFloat(&c.DailySpanDays, d.DailySpanDays)
	fillInt(&c.MinScatterPairs, d.MinScatterPairs)
	fillInt(&c.MaxScatterPoints, d.MaxScatterPoints)
	fillInt(&c.MinCorrColumns, d.MinCorrColumns)
	fillInt(&c.MaxCorrColumns, d.MaxCorrColumns)
	fillInt(&c.MinCorrRows, d.MinCorrRows)
	fillInt(&c.MinCharts, d.MinCharts)
	fillInt(&c.MaxCharts, d.MaxCharts)
	fillInt(&c.PurposeCap, d.PurposeCap)
	fillInt(&c.MaxInsights, d.MaxInsights)
	fillFloat(&c.MissingInfoPct, d.MissingInfoPct)
	fillFloat(&c.MissingWarnPct, d.MissingWarnPct)
	fillFloat(&c.OutlierMaxMean, d.OutlierMaxMean)
	fillInt(&c.MaxOutlierInsights, d.MaxOutlierInsights)
	fillFloat(&c.SkewMeanMedian, d.SkewMeanMedian)
	fillFloat(&c.DominancePct, d.DominancePct)
	fillInt(&c.TrendMinDates, d.TrendMinDates)
	fillInt(&c.ListedColumns, d.ListedColumns)
	return c
}

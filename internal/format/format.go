// Package format renders numbers, percents and dates for human-facing text.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Number renders integers with thousands separators and other values with at
// most two decimals: 10000 -> "10,000", 149.5 -> "149.5".
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	if math.Abs(v) < 0.01 || math.Abs(v) >= 1e15 {
		return fmt.Sprintf("%.4g", v)
	}
	return humanize.CommafWithDigits(math.Round(v*100)/100, 2)
}

// Percent renders a 0-100 value with one decimal: "80.0%".
func Percent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// Count renders an integer count with separators.
func Count(n int) string { return humanize.Comma(int64(n)) }

// Day renders a timestamp as YYYY-MM-DD.
func Day(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.UTC().Format("2006-01-02")
}

// Days renders a span in whole days.
func Days(days float64) string {
	d := int(math.Round(days))
	if d == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%s days", humanize.Comma(int64(d)))
}

// Plural picks singular or plural by n.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

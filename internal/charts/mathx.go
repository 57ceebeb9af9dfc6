package charts

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// quantile interpolates linearly between order statistics of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// pearson returns the correlation of x and y, or false when either side has
// no variance.
func pearson(x, y []float64) (float64, bool) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	v := stat.Variance(x, nil)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func log10p(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		x = math.MaxFloat64
	}
	return math.Log10(x + 1)
}

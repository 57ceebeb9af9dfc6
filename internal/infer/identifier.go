package infer

import (
	"math"
	"regexp"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
)

var (
	tokenShaped  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	alnumOnly    = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	idNameTokens = map[string]struct{}{
		"id": {}, "uuid": {}, "guid": {}, "hash": {}, "token": {}, "key": {}, "identifier": {},
	}
)

// NameSuggestsIdentifier reports whether any token of the column name is an
// identifier word (id, uuid, guid, hash, token, key, identifier).
func NameSuggestsIdentifier(name string) bool {
	for _, t := range splitName(name) {
		if _, ok := idNameTokens[t]; ok {
			return true
		}
	}
	return false
}

// LooksLikeIdentifier is the content heuristic over a sample of non-missing
// values. Mostly-numeric and mostly-date samples never qualify: amounts and
// timestamps are often unique without being identifiers.
func LooksLikeIdentifier(sample []any, cfg heuristics.Config) bool {
	n := len(sample)
	if n < cfg.IDMinSamples {
		return false
	}
	numShare, dateShare := Shares(sample)
	if numShare >= cfg.IDRejectParseShare || dateShare >= cfg.IDRejectParseShare {
		return false
	}
	distinct := make(map[string]struct{}, n)
	var tokens, long, totalLen int
	for _, v := range sample {
		s := Key(v)
		distinct[s] = struct{}{}
		totalLen += utf8.RuneCountInString(s)
		if tokenShaped.MatchString(s) {
			tokens++
			if len(s) >= cfg.IDLongTokenLen && alnumOnly.MatchString(s) {
				long++
			}
		}
	}
	uniqueRatio := float64(len(distinct)) / float64(n)
	tokenShare := float64(tokens) / float64(n)
	avgLen := float64(totalLen) / float64(n)
	longShare := 0.0
	if tokens > 0 {
		longShare = float64(long) / float64(tokens)
	}
	return uniqueRatio > cfg.IDUniqueRatio &&
		tokenShare > cfg.IDTokenShare &&
		(avgLen <= cfg.IDMaxAvgLen || longShare >= cfg.IDLongTokenShare)
}

// IsNumericIdentifier flags integer columns that behave like row numbers:
// nearly all unique, and either a strided sample climbs in even steps or the
// value range is about the unique count.
//
// The range rule also matches densely packed integer measures (a 1..100 score
// with every value present). IndexRangeSlack is the knob.
func IsNumericIdentifier(nums []float64, unique, nonMissing int, cfg heuristics.Config) bool {
	if len(nums) < cfg.IDMinSamples || nonMissing == 0 || unique == 0 {
		return false
	}
	if float64(unique)/float64(nonMissing) < cfg.NumericIDUniqueRatio {
		return false
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range nums {
		if x != math.Trunc(x) {
			return false
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if isEvenSequence(stridedSample(nums, cfg.SequenceSample), cfg) {
		return true
	}
	return (hi-lo+1)/float64(unique) <= cfg.IndexRangeSlack
}

// stridedSample takes every k-th value plus the final one.
func stridedSample(nums []float64, n int) []float64 {
	if n <= 1 || len(nums) <= n {
		return nums
	}
	stride := len(nums) / n
	out := make([]float64, 0, n+1)
	for i := 0; i < len(nums); i += stride {
		out = append(out, nums[i])
	}
	if (len(nums)-1)%stride != 0 {
		out = append(out, nums[len(nums)-1])
	}
	return out
}

func isEvenSequence(seq []float64, cfg heuristics.Config) bool {
	if len(seq) < 3 {
		return false
	}
	diffs := make([]float64, 0, len(seq)-1)
	increasing := 0
	for i := 1; i < len(seq); i++ {
		d := seq[i] - seq[i-1]
		if d > 0 {
			increasing++
		}
		diffs = append(diffs, d)
	}
	if float64(increasing)/float64(len(diffs)) < cfg.SequenceIncreasing {
		return false
	}
	mean, sd := stat.MeanStdDev(diffs, nil)
	if !(mean > 0) || math.IsInf(mean, 0) {
		return false
	}
	return sd/mean <= cfg.SequenceStepCV
}

// IdentifierLike is the cheap check used after profiling: a name hint, or a
// near-unique integer column whose span is about its unique count.
func IdentifierLike(name string, unique, nonMissing int, integerLike bool, span float64, cfg heuristics.Config) bool {
	if NameSuggestsIdentifier(name) {
		return true
	}
	if unique < cfg.IDLikeMinUnique || nonMissing == 0 {
		return false
	}
	if float64(unique)/float64(nonMissing) <= cfg.IDLikeUniqueRatio || !integerLike {
		return false
	}
	return (span+1)/float64(unique) <= cfg.IndexRangeSlack
}

// IsNameList flags high-cardinality label columns (people, products) with no
// dominant value. topShare is a fraction of non-missing values.
func IsNameList(unique, nonMissing int, topShare float64, cfg heuristics.Config) bool {
	if nonMissing == 0 || unique < cfg.NameListMinUnique {
		return false
	}
	return float64(unique)/float64(nonMissing) > cfg.NameListUniqueRatio && topShare < cfg.NameListMaxTopShare
}

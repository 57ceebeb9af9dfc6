// Package infer classifies columns from raw cell values and hosts the
// identifier and name-list predicates shared by the profile, KPI and chart
// stages.
package infer

import (
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Kind is the inferred column type.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDate        Kind = "date"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindIdentifier  Kind = "identifier"
)

// Reason records which rule produced an identifier classification.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonName     Reason = "name"
	ReasonContent  Reason = "content"
	ReasonSequence Reason = "sequence"
)

// Classification is the outcome of Classify.
type Classification struct {
	Kind   Kind
	Reason Reason
}

// Sample returns up to n non-missing values in their original order.
func Sample(values []any, n int) []any {
	out := make([]any, 0, min(n, len(values)))
	for _, v := range values {
		if len(out) >= n {
			break
		}
		if table.IsMissing(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Shares reports the fraction of sample values that parse as numbers and as dates.
func Shares(sample []any) (numeric, date float64) {
	if len(sample) == 0 {
		return 0, 0
	}
	var nNum, nDate int
	for _, v := range sample {
		if _, ok := ParseNumber(v); ok {
			nNum++
			continue
		}
		if _, ok := ParseDate(v); ok {
			nDate++
		}
	}
	n := float64(len(sample))
	return float64(nNum) / n, float64(nDate) / n
}

// InferKind runs the first-pass decision order on one column: identifier (name
// hint or content), numeric, date, free text, categorical.
func InferKind(name string, values []any, cfg heuristics.Config) Kind {
	sample := Sample(values, cfg.SampleSize)
	if len(sample) == 0 {
		return KindCategorical
	}
	if NameSuggestsIdentifier(name) || LooksLikeIdentifier(sample, cfg) {
		return KindIdentifier
	}
	numShare, dateShare := Shares(sample)
	switch {
	case numShare >= cfg.NumericShare:
		return KindNumeric
	case dateShare >= cfg.DateShare:
		return KindDate
	case averageLength(sample) > cfg.TextAvgLen:
		return KindText
	}
	return KindCategorical
}

// Classify is InferKind plus the numeric-identifier pass over every parsed
// value of a numeric column. unique and nonMissing are whole-column counts.
func Classify(name string, values []any, unique, nonMissing int, cfg heuristics.Config) Classification {
	kind := InferKind(name, values, cfg)
	switch kind {
	case KindIdentifier:
		if NameSuggestsIdentifier(name) {
			return Classification{Kind: KindIdentifier, Reason: ReasonName}
		}
		return Classification{Kind: KindIdentifier, Reason: ReasonContent}
	case KindNumeric:
		nums := make([]float64, 0, nonMissing)
		for _, v := range values {
			if f, ok := ParseNumber(v); ok {
				nums = append(nums, f)
			}
		}
		if IsNumericIdentifier(nums, unique, nonMissing, cfg) {
			return Classification{Kind: KindIdentifier, Reason: ReasonSequence}
		}
	}
	return Classification{Kind: kind}
}

func averageLength(sample []any) float64 {
	if len(sample) == 0 {
		return 0
	}
	total := 0
	for _, v := range sample {
		total += utf8.RuneCountInString(Key(v))
	}
	return float64(total) / float64(len(sample))
}

// FallbackShare is the parse rate of a column's first n rows (missing cells
// skipped) under parse. Used by the chart stage to recover mistyped columns.
func FallbackShare(values []any, n int, parse func(any) bool) float64 {
	if len(values) > n {
		values = values[:n]
	}
	var seen, hit int
	for _, v := range values {
		if table.IsMissing(v) {
			continue
		}
		seen++
		if parse(v) {
			hit++
		}
	}
	if seen == 0 {
		return 0
	}
	return float64(hit) / float64(seen)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitName breaks a column name into lowercase tokens on punctuation and
// camelCase boundaries: "orderID" -> [order id], "user_uuid" -> [user uuid].
func splitName(name string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if !isAlnum(r) {
			flush()
			continue
		}
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if (prev >= 'a' && prev <= 'z') || (prev >= 'A' && prev <= 'Z' && nextLower) {
				flush()
			}
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}

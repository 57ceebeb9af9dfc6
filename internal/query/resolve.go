package query

import (
	"strings"
	"unicode"

	"github.com/KaramelBytes/glance-cli/internal/profile"
)

// columnKey lowercases and strips everything but letters and digits.
func columnKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var fillerPrefixes = []string{"the ", "column ", "field ", "variable ", "values of ", "value of "}

func cleanPhrase(phrase string) string {
	p := strings.Trim(strings.TrimSpace(phrase), "`'\"?.!,:;")
	for changed := true; changed; {
		changed = false
		for _, f := range fillerPrefixes {
			if strings.HasPrefix(p, f) {
				p = strings.TrimSpace(strings.TrimPrefix(p, f))
				changed = true
			}
		}
	}
	p = strings.TrimSuffix(p, " column")
	return strings.Trim(strings.TrimSpace(p), "`'\"")
}

// ResolveColumn maps a phrase to a real column: an exact normalized match
// first, then containment in either direction. Among containment matches the
// longest column key wins, ties by column order.
func ResolveColumn(phrase string, p profile.DatasetProfile) (string, bool) {
	key := columnKey(cleanPhrase(phrase))
	if key == "" {
		return "", false
	}
	for _, c := range p.Columns {
		if columnKey(c) == key {
			return c, true
		}
	}
	best, bestLen := "", 0
	for _, c := range p.Columns {
		ck := columnKey(c)
		if ck == "" {
			continue
		}
		if strings.Contains(ck, key) || strings.Contains(key, ck) {
			if len(ck) > bestLen {
				best, bestLen = c, len(ck)
			}
		}
	}
	return best, best != ""
}

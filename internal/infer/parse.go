package infer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	commaGrouped   = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)
	dotGrouped     = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3}){2,}$`)
	dayFirstDate   = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)
	currencySigns  = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "₹", "", "₩", "", "₽", "", "¢", "")
	spaceStripper  = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")
)

// ParseNumber interprets a cell as a number. Strings are normalized first:
// currency symbols, non-breaking spaces, thousands separators, a percent
// suffix and accounting-style parentheses are removed.
func ParseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool, time.Time:
		return 0, false
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		f := float64(x)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		return parseNumericString(x)
	}
	return 0, false
}

func parseNumericString(s string) (float64, bool) {
	raw := normalizeNumeric(s)
	if raw == "" || !numericLiteral.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeNumeric rewrites a human-formatted number into a Go float literal.
// The result is not validated.
func normalizeNumeric(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ""
	}
	neg := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		neg = true
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	raw = currencySigns.Replace(raw)
	raw = spaceStripper.Replace(raw)
	raw = strings.TrimSuffix(raw, "%")
	if raw == "" {
		return ""
	}

	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			// 1.234,5
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			// 1,234.5
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case cpos >= 0:
		if commaGrouped.MatchString(raw) {
			raw = strings.ReplaceAll(raw, ",", "")
		} else if strings.Count(raw, ",") == 1 {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	case dpos >= 0:
		if dotGrouped.MatchString(raw) {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}
	if neg {
		switch {
		case strings.HasPrefix(raw, "-"):
		case strings.HasPrefix(raw, "+"):
			raw = "-" + raw[1:]
		default:
			raw = "-" + raw
		}
	}
	return raw
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01",
	"Jan 2006",
	"January 2006",
}

// ParseDate interprets a cell as a calendar timestamp. Layouts are tried in
// ISO-first order (month-first for slashed dates); day-first D/M/Y and D-M-Y
// with 2- or 4-digit years are the fallback. Plain numbers are never dates.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		return parseDateString(x)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	if len(raw) < 6 || len(raw) > 40 {
		return time.Time{}, false
	}
	if _, ok := parseNumericString(raw); ok {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC(), true
		}
	}
	m := dayFirstDate.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// 31/02 and friends
		return time.Time{}, false
	}
	return t, true
}

// Key returns the canonical string used for uniqueness and fingerprints.
// Times are rendered as UTC RFC3339 so equal instants hash equally.
func Key(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

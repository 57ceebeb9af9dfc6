package infer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"1,234", 1234, true},
		{"1,234.50", 1234.5, true},
		{"1.234,5", 1234.5, true},
		{"1.234.567", 1234567, true},
		{"0,5", 0.5, true},
		{"$1,200", 1200, true},
		{"12%", 12, true},
		{"(1,234.50)", -1234.5, true},
		{"1 000", 1000, true},
		{7, 7, true},
		{int64(9), 9, true},
		{2.25, 2.25, true},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseNumber(%#v)", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "ParseNumber(%#v)", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	cases := []struct {
		in   any
		want time.Time
		ok   bool
	}{
		{"2024-03-15", day(2024, 3, 15), true},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"03/15/2024", day(2024, 3, 15), true},
		{"15/03/2024", day(2024, 3, 15), true},
		{"15-03-24", day(2024, 3, 15), true},
		{"Mar 15, 2024", day(2024, 3, 15), true},
		{"2024-03", day(2024, 3, 1), true},
		{day(2020, 1, 2), day(2020, 1, 2), true},
		{"31/02/2024", time.Time{}, false},
		{"20240315", time.Time{}, false},
		{"hello world", time.Time{}, false},
		{12345.0, time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseDate(%#v)", tc.in)
		if tc.ok {
			assert.True(t, tc.want.Equal(got), "ParseDate(%#v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestKeyCanonical(t *testing.T) {
	assert.Equal(t, "10", Key(10.0))
	assert.Equal(t, "x", Key("  x "))
	assert.Equal(t, "2024-01-02T00:00:00Z", Key(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", Key(nil))
}

func TestSplitNameAndIdentifierNames(t *testing.T) {
	assert.Equal(t, []string{"order", "id"}, splitName("orderID"))
	assert.Equal(t, []string{"user", "uuid"}, splitName("user_uuid"))
	assert.Equal(t, []string{"http", "status"}, splitName("HTTPStatus"))

	for _, name := range []string{"order_id", "CustomerID", "session-token", "api key", "GUID"} {
		assert.True(t, NameSuggestsIdentifier(name), name)
	}
	for _, name := range []string{"valid", "monkey", "amount", "paid"} {
		assert.False(t, NameSuggestsIdentifier(name), name)
	}
}

func seq(n int, f func(i int) any) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func countsOf(values []any) (unique, nonMissing int) {
	seen := map[string]struct{}{}
	for _, v := range values {
		if v == nil {
			continue
		}
		nonMissing++
		seen[Key(v)] = struct{}{}
	}
	return len(seen), nonMissing
}

func TestClassify(t *testing.T) {
	cfg := heuristics.Default()
	amounts := append(seq(99, func(i int) any { return float64(i + 1) }), 10000.0)
	cases := []struct {
		name   string
		values []any
		kind   Kind
		reason Reason
	}{
		{"order_id", seq(50, func(i int) any { return float64(i + 1) }), KindIdentifier, ReasonName},
		{"sku", seq(40, func(i int) any { return fmt.Sprintf("K%08dX", i*7919) }), KindIdentifier, ReasonContent},
		{"row", seq(100, func(i int) any { return float64(i + 1) }), KindIdentifier, ReasonSequence},
		{"amount", amounts, KindNumeric, ReasonNone},
		{"country", seq(60, func(i int) any { return []string{"US", "CA", "MX"}[i%3] }), KindCategorical, ReasonNone},
		{"when", seq(30, func(i int) any { return time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02") }), KindDate, ReasonNone},
		{"note", seq(30, func(i int) any { return fmt.Sprintf("free form remark number %d about the delivery", i%4) }), KindText, ReasonNone},
		{"blank", seq(10, func(int) any { return nil }), KindCategorical, ReasonNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, nonMissing := countsOf(tc.values)
			got := Classify(tc.name, tc.values, unique, nonMissing, cfg)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestInferKindAgreesWithClassifyOnFirstPass(t *testing.T) {
	cfg := heuristics.Default()
	vals := seq(30, func(i int) any { return fmt.Sprintf("%d.5", i) })
	assert.Equal(t, KindNumeric, InferKind("score", vals, cfg))
	assert.Equal(t, KindIdentifier, InferKind("user_id", vals, cfg))
	assert.Equal(t, KindCategorical, InferKind("empty", []any{nil, ""}, cfg))
}

func TestIsNumericIdentifier(t *testing.T) {
	cfg := heuristics.Default()
	ids := make([]float64, 200)
	for i := range ids {
		ids[i] = float64(1000 + 3*i)
	}
	assert.True(t, IsNumericIdentifier(ids, 200, 200, cfg), "even stride")

	amounts := make([]float64, 0, 100)
	for i := 1; i <= 99; i++ {
		amounts = append(amounts, float64(i))
	}
	amounts = append(amounts, 10000)
	assert.False(t, IsNumericIdentifier(amounts, 100, 100, cfg), "trailing spike breaks the sequence")

	frac := []float64{1.5, 2.5, 3.5}
	assert.False(t, IsNumericIdentifier(frac, 3, 3, cfg), "too few samples")

	dup := make([]float64, 40)
	for i := range dup {
		dup[i] = float64(i % 20)
	}
	assert.False(t, IsNumericIdentifier(dup, 20, 40, cfg), "not unique enough")
}

func TestIsEvenSequence(t *testing.T) {
	cfg := heuristics.Default()
	cases := []struct {
		name string
		seq  []float64
		want bool
	}{
		{"constant step", []float64{10, 20, 30, 40, 50}, true},
		{"small jitter", []float64{10, 21, 30, 41, 50, 61}, true},
		{"uneven steps", []float64{1, 2, 40, 41, 300}, false},
		{"decreasing", []float64{50, 40, 30, 20}, false},
		{"flat", []float64{7, 7, 7, 7}, false},
		{"too short", []float64{1, 2}, false},
		{"overflowing steps", []float64{-1.5e308, 1.5e308, -1.5e308, 1.5e308}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isEvenSequence(tc.seq, cfg))
		})
	}
}

func TestIdentifierLikeAndNameList(t *testing.T) {
	cfg := heuristics.Default()
	require.True(t, IdentifierLike("ticket_id", 3, 3, false, 0, cfg))
	assert.True(t, IdentifierLike("n", 100, 100, true, 99, cfg))
	assert.False(t, IdentifierLike("amount", 100, 100, true, 9999, cfg))
	assert.False(t, IdentifierLike("price", 100, 100, false, 99, cfg))

	assert.True(t, IsNameList(300, 400, 0.01, cfg))
	assert.False(t, IsNameList(3, 500, 0.8, cfg))
	assert.False(t, IsNameList(300, 400, 0.5, cfg))
}

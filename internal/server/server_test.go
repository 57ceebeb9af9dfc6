package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/query"
	"github.com/KaramelBytes/glance-cli/internal/testkit"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func amountRows() []map[string]any {
	var rows []map[string]any
	for _, r := range testkit.Amounts() {
		rows = append(rows, map[string]any(r))
	}
	return rows
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, true, out["ok"])
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, out := post(t, ts.URL+"/v1/profile", map[string]any{"rows": amountRows(), "fileKind": "csv"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	meta := out["meta"].(map[string]any)
	assert.Equal(t, "csv", meta["fileKind"])
	assert.EqualValues(t, 100, meta["rowCount"])
	assert.NotEmpty(t, out["id"])
	assert.NotEmpty(t, out["kpis"])
	for _, c := range out["charts"].([]any) {
		assert.NotEmpty(t, c.(map[string]any)["type"])
	}
}

func TestProfileExtremeValues(t *testing.T) {
	ts := newTestServer(t, Options{})
	var rows []map[string]any
	for _, r := range testkit.Extremes(30) {
		rows = append(rows, map[string]any(r))
	}
	resp, out := post(t, ts.URL+"/v1/profile", map[string]any{"rows": rows})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, out)
	assert.NotEmpty(t, out["kpis"])
}

func TestProfileMarkdown(t *testing.T) {
	ts := newTestServer(t, Options{})
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]any{"rows": amountRows()}))
	resp, err := http.Post(ts.URL+"/v1/profile?format=markdown", "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "## Dataset summary")
}

func TestProfileUnknownFormat(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, out := post(t, ts.URL+"/v1/profile?format=pdf", map[string]any{"rows": amountRows()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", out["error"].(map[string]any)["code"])
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, out := post(t, ts.URL+"/v1/charts", map[string]any{"rows": amountRows()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["charts"])
}

func TestAsk(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, out := post(t, ts.URL+"/v1/ask", map[string]any{"rows": amountRows(), "question": "explain Amount"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out["answer"], "mean of 149.5")

	var undated []map[string]any
	for _, r := range testkit.Undated(60) {
		undated = append(undated, map[string]any(r))
	}
	resp, out = post(t, ts.URL+"/v1/ask", map[string]any{"rows": undated, "question": "time trend"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, query.NoDateColumn, out["answer"])
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, Options{})
	cases := []struct {
		name string
		path string
		body any
		msg  string
	}{
		{"invalid json", "/v1/profile", "{not json", "invalid json"},
		{"no rows", "/v1/profile", map[string]any{"rows": []any{}}, "rows is required"},
		{"no question", "/v1/ask", map[string]any{"rows": amountRows()}, "question is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := post(t, ts.URL+tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := out["error"].(map[string]any)
			assert.Equal(t, "bad_request", e["code"])
			assert.Contains(t, e["message"], tc.msg)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 64})
	resp, out := post(t, ts.URL+"/v1/profile", map[string]any{"rows": amountRows()})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "payload_too_large", out["error"].(map[string]any)["code"])
}

func TestToTable(t *testing.T) {
	tbl := toTable(tableRequest{
		Columns: []string{"b", "a", "b"},
		Rows: []map[string]any{
			{"a": 1.0, "b": " ", "c": map[string]any{"k": 1}},
		},
	})
	assert.Equal(t, []string{"b", "a", "c"}, tbl.Columns)
	assert.Equal(t, "json", tbl.Kind)
	assert.Nil(t, tbl.Rows[0]["b"])
	assert.Equal(t, `{"k":1}`, tbl.Rows[0]["c"])
}

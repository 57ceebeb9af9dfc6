package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/logging"
)

func TestRequestLoggerWritesOneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	h := New(Options{Logger: logging.New(logging.LevelDebug, &buf)}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.Contains(t, out, "http\trequest")
	assert.Contains(t, out, `"path": "/healthz"`)
	assert.Contains(t, out, `"status": 200`)
	assert.Contains(t, out, `"request_id"`)
}

func TestRequestLoggerQuietAboveWarn(t *testing.T) {
	var buf bytes.Buffer
	h := New(Options{Logger: logging.New(logging.LevelError, &buf)}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())
}

func TestWriteJSONReportsEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"mean": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, errorCode(http.StatusInternalServerError), out["error"]["code"])
	assert.Contains(t, out["error"]["message"], "encode response")
}

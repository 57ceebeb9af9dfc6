// Package server exposes the profiling pipeline over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
	"github.com/KaramelBytes/glance-cli/internal/logging"
	"github.com/KaramelBytes/glance-cli/internal/report"
	"github.com/KaramelBytes/glance-cli/internal/table"
)

// Options configures a Server.
type Options struct {
	Heuristics   heuristics.Config
	MaxBodyBytes int64
	Timeout      time.Duration
	Logger       *logging.Logger
}

// Server routes profiling requests.
type Server struct {
	router *chi.Mux
	opts   Options
	log    *logging.Logger
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.Heuristics = opts.Heuristics.Normalize()
	s := &Server{router: chi.NewRouter(), opts: opts, log: logging.Discard()}
	if opts.Logger != nil {
		s.log = opts.Logger.Named("http")
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.opts.Timeout))

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/profile", s.handleProfile)
		r.Post("/charts", s.handleCharts)
		r.Post("/ask", s.handleAsk)
	})
}

type tableRequest struct {
	Name     string           `json:"name"`
	FileKind string           `json:"fileKind"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Question string           `json:"question"`
}

type askResponse struct {
	ReportID string `json:"reportId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.analyze(w, r)
	if !ok {
		return
	}
	switch f := r.URL.Query().Get("format"); f {
	case "", "json":
		writeJSON(w, http.StatusOK, rep)
	case "markdown", "html":
		out, err := rep.Render(f)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		ct := "text/markdown; charset=utf-8"
		if f == "html" {
			ct = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	default:
		writeErr(w, http.StatusBadRequest, fmt.Errorf("%w: %q", report.ErrUnknownFormat, f))
	}
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reportId": rep.ID, "charts": rep.Charts})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeErr(w, http.StatusBadRequest, errors.New("question is required"))
		return
	}
	rep, ok := s.run(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, askResponse{ReportID: rep.ID, Question: req.Question, Answer: rep.Ask(req.Question)})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	req, ok := s.decode(w, r)
	if !ok {
		return nil, false
	}
	return s.run(w, r, req)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (tableRequest, bool) {
	var req tableRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeErr(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooBig.Limit))
			return req, false
		}
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return req, false
	}
	if len(req.Rows) == 0 {
		writeErr(w, http.StatusBadRequest, errors.New("rows is required"))
		return req, false
	}
	return req, true
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, req tableRequest) (*report.Report, bool) {
	t := toTable(req)
	meta := t.Meta()
	rep, err := report.Analyze(r.Context(), t, meta, s.opts.Heuristics)
	if err != nil {
		s.log.Errorf("analyze %s: %v", t.Name, err)
		writeErr(w, http.StatusInternalServerError, err)
		return nil, false
	}
	s.log.Debugf("analyzed %d rows x %d columns (report %s)", meta.RowCount, meta.ColumnCount, rep.ID)
	return rep, true
}

// toTable converts decoded JSON rows. Nested values are flattened to their
// JSON text; explicit columns fix the order, otherwise keys are discovered.
func toTable(req tableRequest) table.Table {
	rows := make([]table.Row, len(req.Rows))
	for i, in := range req.Rows {
		row := make(table.Row, len(in))
		for k, v := range in {
			row[k] = cell(v)
		}
		rows[i] = row
	}
	t := table.FromRows(rows)
	if len(req.Columns) > 0 {
		t.Columns = append(dedupe(req.Columns), missingFrom(req.Columns, t.Columns)...)
	}
	t.Name = req.Name
	t.Kind = req.FileKind
	if t.Kind == "" {
		t.Kind = "json"
	}
	return t
}

func cell(v any) any {
	switch x := v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return x
	default:
		return v
	}
}

func dedupe(cols []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range cols {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func missingFrom(declared, discovered []string) []string {
	have := map[string]struct{}{}
	for _, c := range declared {
		have[c] = struct{}{}
	}
	var out []string
	for _, c := range discovered {
		if _, ok := have[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// writeJSON encodes before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		code = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]any{
			"error": map[string]any{
				"code":    errorCode(code),
				"message": "encode response: " + err.Error(),
			},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    errorCode(code),
			"message": msg,
		},
	})
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	default:
		if status >= 500 {
			return "internal"
		}
		return "request_failed"
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func middlewareRouter(buf *bytes.Buffer) *chi.Mux {
	logger := logging.NewWithWriter(buf, "debug")
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
		})
		r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
			notFound(w, "nothing here")
		})
		r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
			panic("slot table corrupted")
		})
	})
	return r
}

func TestLoggingMiddleware_RouteSessionAndLevel(t *testing.T) {
	var buf bytes.Buffer
	router := middlewareRouter(&buf)

	cases := []struct {
		path  string
		level string
	}{
		{"/api/sessions/abc123/ok", "INFO"},
		{"/api/sessions/abc123/missing", "WARN"},
	}
	for _, tc := range cases {
		buf.Reset()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		lines := logLines(t, &buf)
		if len(lines) != 1 {
			t.Fatalf("%s: %d log lines", tc.path, len(lines))
		}
		entry := lines[0]
		if entry["level"] != tc.level {
			t.Errorf("%s: level = %v, want %s", tc.path, entry["level"], tc.level)
		}
		if entry["session_id"] != "abc123" {
			t.Errorf("%s: session_id = %v", tc.path, entry["session_id"])
		}
		if route, _ := entry["route"].(string); !strings.HasPrefix(route, "/api/sessions/{id}/") {
			t.Errorf("%s: route = %v", tc.path, entry["route"])
		}
		if entry["request_id"] != rec.Header().Get("X-Request-ID") {
			t.Errorf("%s: request_id = %v, header %q", tc.path, entry["request_id"], rec.Header().Get("X-Request-ID"))
		}
	}
}

func TestRequestIDMiddleware_KeepsCallerID(t *testing.T) {
	var buf bytes.Buffer
	router := middlewareRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc123/missing", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var er ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatal(err)
	}
	if er.RequestID != "trace-42" || er.Code != "NOT_FOUND" {
		t.Errorf("envelope = %+v", er)
	}
}

func TestRecoveryMiddleware_InternalErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	router := middlewareRouter(&buf)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/abc123/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var er ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&er); err != nil {
		t.Fatal(err)
	}
	if er.Code != "INTERNAL_ERROR" || er.RequestID == "" {
		t.Errorf("envelope = %+v", er)
	}

	var panicLine, requestLine map[string]any
	for _, entry := range logLines(t, &buf) {
		switch entry["msg"] {
		case "handler panic":
			panicLine = entry
		case "http request":
			requestLine = entry
		}
	}
	stack, _ := panicLine["stack"].(string)
	if panicLine["session_id"] != "abc123" || !strings.Contains(stack, "middleware_test.go") {
		t.Errorf("panic log = %v", panicLine)
	}
	if requestLine["level"] != "ERROR" || requestLine["status"] != float64(500) {
		t.Errorf("request log = %v", requestLine)
	}
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type logEntry struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Size      int    `json:"size"`
	RequestID string `json:"request_id"`
	Subject   string `json:"subject"`
	ErrorCode string `json:"error_code"`
}

func captureLog(t *testing.T, buf *bytes.Buffer) logEntry {
	t.Helper()
	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v, log: %s", err, buf.String())
	}
	return entry
}

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging_StatusAndLevel(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorCode string
		wantLevel string
		wantCode  string
	}{
		{"success logs at info", http.StatusOK, "", "INFO", ""},
		{"client error logs at warn", http.StatusBadRequest, "validation_error", "WARN", "validation_error"},
		{"server error logs at error", http.StatusInternalServerError, "internal_error", "ERROR", "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := Logging(jsonLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.errorCode != "" {
					UpdateResponseContext(w, SetErrorCode(r.Context(), tt.errorCode))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte("body!"))
			}))

			req := httptest.NewRequest(http.MethodPost, "/roster/42/reviews", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			entry := captureLog(t, buf)
			if entry.Method != "POST" || entry.Path != "/roster/42/reviews" {
				t.Errorf("logged %s %s, want POST /roster/42/reviews", entry.Method, entry.Path)
			}
			if entry.Status != tt.status {
				t.Errorf("status = %d, want %d", entry.Status, tt.status)
			}
			if entry.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", entry.Level, tt.wantLevel)
			}
			if entry.ErrorCode != tt.wantCode {
				t.Errorf("error_code = %q, want %q", entry.ErrorCode, tt.wantCode)
			}
			if entry.Size != 5 {
				t.Errorf("size = %d, want 5", entry.Size)
			}
			if entry.LatencyMS < 0 {
				t.Errorf("latency_ms = %d, want non-negative", entry.LatencyMS)
			}
		})
	}
}

func TestLogging_ImplicitStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := Logging(jsonLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if entry := captureLog(t, buf); entry.Status != http.StatusOK {
		t.Errorf("status = %d, want 200 when the handler never calls WriteHeader", entry.Status)
	}
}

func TestLogging_CorrelationFields(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := RequestID(Logging(jsonLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetSubject(r.Context(), "moderator-2")
		ctx = SetErrorCode(ctx, "forbidden")
		UpdateResponseContext(w, ctx)
		w.WriteHeader(http.StatusForbidden)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/admin/reviews/123", nil)
	req.Header.Set(RequestIDHeader, "req-id-789")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := captureLog(t, buf)
	if entry.RequestID != "req-id-789" {
		t.Errorf("request_id = %q, want req-id-789", entry.RequestID)
	}
	if entry.Subject != "moderator-2" {
		t.Errorf("subject = %q, want moderator-2", entry.Subject)
	}
	if entry.ErrorCode != "forbidden" {
		t.Errorf("error_code = %q, want forbidden", entry.ErrorCode)
	}
}

func TestLogging_ErrorCodeSuppressedOnSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := Logging(jsonLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		UpdateResponseContext(w, SetErrorCode(r.Context(), "stale_code"))
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if strings.Contains(buf.String(), "error_code") {
		t.Error("error_code must not appear on a 2xx log line")
	}
}

func TestSubjectAndErrorCodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GetSubject(ctx) != "" || GetErrorCode(ctx) != "" {
		t.Error("empty context should yield empty subject and error code")
	}

	ctx = SetSubject(ctx, "moderator-1")
	ctx = SetErrorCode(ctx, "not_found")
	if got := GetSubject(ctx); got != "moderator-1" {
		t.Errorf("subject = %q, want moderator-1", got)
	}
	if got := GetErrorCode(ctx); got != "not_found" {
		t.Errorf("error code = %q, want not_found", got)
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("recorded status = %d, want 201", rw.statusCode)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("underlying status = %d, want 201", rec.Code)
	}
}

func TestResponseWriter_AccumulatesSize(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	rw.Write([]byte("first "))
	rw.Write([]byte("second"))

	if rw.size != 12 {
		t.Errorf("size = %d, want 12", rw.size)
	}
}

func TestUpdateResponseContext(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	ctx := SetErrorCode(context.Background(), "forbidden")
	UpdateResponseContext(rw, ctx)
	if rw.ctx == nil || GetErrorCode(rw.ctx) != "forbidden" {
		t.Error("expected updated context to carry the error code")
	}

	// Plain writers are a no-op, not a panic.
	UpdateResponseContext(httptest.NewRecorder(), ctx)
}

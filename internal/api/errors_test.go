package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, context.Background(), http.StatusNotFound, ErrCodeNotFound, "Resource not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code %q, got %q", ErrCodeNotFound, resp.Error.Code)
	}
	if resp.Error.Message != "Resource not found" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}

func TestWriteErrorDetail_OmitsEmptyMatches(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorDetail(rec, context.Background(), http.StatusConflict, ErrorDetail{
		Code:    ErrCodeConflict,
		Message: "Conflict",
	})

	var raw map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if _, ok := raw["error"]["matches"]; ok {
		t.Error("expected matches to be omitted when empty")
	}
}

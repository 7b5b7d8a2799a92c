// Package api provides HTTP handlers for the RateMyRA API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ratemyra/api/internal/middleware"
)

// Common error codes used throughout the API.
const (
	// ErrCodeValidation indicates input validation failure.
	ErrCodeValidation = "validation_error"

	// ErrCodeAuthFailed indicates authentication failure.
	ErrCodeAuthFailed = "auth_failed"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeRateLimited indicates rate limit exceeded.
	ErrCodeRateLimited = "rate_limited"

	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"

	// ErrCodeForbidden indicates the request is forbidden.
	ErrCodeForbidden = "forbidden"

	// ErrCodeConflict indicates a conflict with the current state.
	ErrCodeConflict = "conflict"

	// ErrCodeBadRequest indicates a malformed request.
	ErrCodeBadRequest = "bad_request"

	// ErrCodeProfanityRejected indicates review text failed the content filter.
	ErrCodeProfanityRejected = "profanity_rejected"

	// ErrCodeDuplicateEntity indicates an exact roster duplicate.
	ErrCodeDuplicateEntity = "duplicate_entity"

	// ErrCodePotentialDuplicate indicates near-duplicate roster entries needing confirmation.
	ErrCodePotentialDuplicate = "potential_duplicate"

	// ErrCodeDuplicateReview indicates a repeated review submission.
	ErrCodeDuplicateReview = "duplicate_review"

	// ErrCodeSchoolNotFound indicates the school was not found.
	ErrCodeSchoolNotFound = "school_not_found"

	// ErrCodeEntityNotFound indicates the roster entity was not found.
	ErrCodeEntityNotFound = "entity_not_found"

	// ErrCodeReviewNotFound indicates the review was not found.
	ErrCodeReviewNotFound = "review_not_found"

	// ErrCodeInvalidStatus indicates an unknown moderation status.
	ErrCodeInvalidStatus = "invalid_status"
)

// ErrorResponse represents the standard error response format.
// All API errors return JSON in this structure: {"error": {"code": "...", "message": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Matches carries supporting detail for duplicate errors, such as
	// the conflicting roster entries.
	Matches any `json:"matches,omitempty"`
}

// WriteError writes a standardized JSON error response.
// It writes the appropriate HTTP status code and returns a JSON error body.
//
// Format: {"error": {"code": "error_code", "message": "Error description"}}
//
// The error_code will be automatically logged by the logging middleware
// for all 4xx and 5xx responses if you call SetErrorCode on the context
// and pass the updated context to WriteError.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	WriteErrorDetail(w, ctx, status, ErrorDetail{Code: code, Message: message})
}

// WriteErrorDetail writes an error response with extra detail attached.
func WriteErrorDetail(w http.ResponseWriter, ctx context.Context, status int, detail ErrorDetail) {
	// Update the context in the response writer if supported (for logging middleware)
	middleware.UpdateResponseContext(w, ctx)

	data, err := json.Marshal(ErrorResponse{Error: detail})
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		slog.ErrorContext(ctx, "failed to marshal error response", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// fail is a convenience wrapper that stamps the error code on the
// request context and writes the error envelope in one call.
func fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteError(w, setErrCtx(r, code), status, code, message)
}

// setErrCtx stamps the error code on the request context for the
// logging middleware.
func setErrCtx(r *http.Request, code string) context.Context {
	return middleware.SetErrorCode(r.Context(), code)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ratemyra/api/internal/cache"
	"github.com/ratemyra/api/internal/review"
)

// defaultModerationLimit caps moderation queue listings.
const defaultModerationLimit = 50

// AdminHandlers contains HTTP handlers for the moderation dashboard.
// All routes must be mounted behind the admin auth middleware.
type AdminHandlers struct {
	reviews review.Repository
	cache   *cache.SummaryCache
}

// NewAdminHandlers creates a new admin handlers instance. cache may be
// nil when Redis is not configured.
func NewAdminHandlers(reviews review.Repository, summaryCache *cache.SummaryCache) *AdminHandlers {
	return &AdminHandlers{reviews: reviews, cache: summaryCache}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// ListReviews handles GET /admin/reviews?status=pending&limit=50
func (h *AdminHandlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = review.StatusPending
	}
	if err := review.ValidateStatus(status); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeInvalidStatus, err.Error())
		return
	}

	limit := defaultModerationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			fail(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reviews, err := h.reviews.ListByStatus(status, limit)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list reviews")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// SetReviewStatus handles PUT /admin/reviews/{id}/status
//
// Changing a review's status changes which reviews feed the entity's
// aggregates, so the cached summary is invalidated.
func (h *AdminHandlers) SetReviewStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}
	if err := review.ValidateStatus(req.Status); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeInvalidStatus, err.Error())
		return
	}

	rev, err := h.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeReviewNotFound, "Review not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch review")
		return
	}

	if err := h.reviews.SetStatus(id, req.Status); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update review status")
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(r.Context(), rev.EntityID)
	}

	updated, err := h.reviews.GetByID(id)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch review")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteReview handles DELETE /admin/reviews/{id}
func (h *AdminHandlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rev, err := h.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeReviewNotFound, "Review not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch review")
		return
	}

	if err := h.reviews.Delete(id); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete review")
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(r.Context(), rev.EntityID)
	}

	w.WriteHeader(http.StatusNoContent)
}

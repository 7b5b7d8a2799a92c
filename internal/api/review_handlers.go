package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ratemyra/api/internal/abuse"
	"github.com/ratemyra/api/internal/cache"
	"github.com/ratemyra/api/internal/profanity"
	"github.com/ratemyra/api/internal/rating"
	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/roster"
	"github.com/ratemyra/api/internal/validate"
)

// ReviewHandlers contains HTTP handlers for review submission, listing
// and voting.
type ReviewHandlers struct {
	reviews  review.Repository
	roster   roster.Repository
	detector *profanity.Detector
	cache    *cache.SummaryCache
}

// NewReviewHandlers creates a new review handlers instance. cache may
// be nil when Redis is not configured.
func NewReviewHandlers(reviews review.Repository, rosterRepo roster.Repository, detector *profanity.Detector, summaryCache *cache.SummaryCache) *ReviewHandlers {
	return &ReviewHandlers{
		reviews:  reviews,
		roster:   rosterRepo,
		detector: detector,
		cache:    summaryCache,
	}
}

type submitReviewRequest struct {
	RatingClarity     int      `json:"rating_clarity"`
	RatingHelpfulness int      `json:"rating_helpfulness"`
	Difficulty        int      `json:"difficulty"`
	WouldTakeAgain    *bool    `json:"would_take_again,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Text              string   `json:"text,omitempty"`
}

type voteRequest struct {
	Helpful bool `json:"helpful"`
}

// SubmitReview handles POST /roster/{id}/reviews
//
// Submissions are anonymous: the submitter is identified only by a
// fingerprint hash derived from connection signals, used to catch
// repeat submissions against the same entity. Text is screened by the
// content filter before anything is persisted.
func (h *ReviewHandlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")

	if _, err := h.roster.GetByID(entityID); err != nil {
		if errors.Is(err, roster.ErrEntityNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeEntityNotFound, "Roster entry not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch roster entry")
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	text, err := validate.ReviewText(req.Text)
	if err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid review text: "+err.Error())
		return
	}
	text = validate.SanitizeHTML(text)

	if v := h.detector.ValidateReviewContent(text); !v.IsValid {
		fail(w, r, http.StatusUnprocessableEntity, ErrCodeProfanityRejected, v.Error)
		return
	}

	rev := &review.Review{
		EntityID:          entityID,
		RatingClarity:     req.RatingClarity,
		RatingHelpfulness: req.RatingHelpfulness,
		RatingOverall:     rating.OverallRating(req.RatingClarity, req.RatingHelpfulness),
		Difficulty:        req.Difficulty,
		WouldTakeAgain:    req.WouldTakeAgain,
		Tags:              req.Tags,
		Status:            review.StatusActive,
		SubmitterHash:     abuse.Fingerprint(clientIP(r), r.UserAgent()),
	}
	if text != "" {
		rev.Text = &text
	}
	if err := rev.Validate(); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	existing, err := h.reviews.ListByEntity(entityID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to check for duplicate reviews")
		return
	}
	if abuse.IsDuplicateSubmission(text, rev.SubmitterHash, existing) {
		fail(w, r, http.StatusConflict, ErrCodeDuplicateReview, "You have already reviewed this person")
		return
	}

	if err := h.reviews.Create(rev); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create review")
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(r.Context(), entityID)
	}

	writeJSON(w, http.StatusCreated, rev)
}

// ListReviews handles GET /roster/{id}/reviews
//
// Only active reviews are returned, most-recent-first. Review text is
// run through the profanity filter on the way out as a second line of
// defense against entries that predate dictionary updates.
func (h *ReviewHandlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("id")

	if _, err := h.roster.GetByID(entityID); err != nil {
		if errors.Is(err, roster.ErrEntityNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeEntityNotFound, "Roster entry not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch roster entry")
		return
	}

	all, err := h.reviews.ListByEntity(entityID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list reviews")
		return
	}

	visible := review.FilterVisible(all, false)
	for i := range visible {
		if visible[i].Text != nil {
			filtered := h.detector.Filter(*visible[i].Text)
			visible[i].Text = &filtered
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": visible,
		"total":   len(visible),
	})
}

// VoteReview handles POST /reviews/{id}/vote
//
// One vote per fingerprint per review; re-voting with the other value
// flips the vote.
func (h *ReviewHandlers) VoteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	voterHash := abuse.Fingerprint(clientIP(r), r.UserAgent())
	if err := h.reviews.Vote(reviewID, voterHash, req.Helpful); err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeReviewNotFound, "Review not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to record vote")
		return
	}

	updated, err := h.reviews.GetByID(reviewID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch review")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// clientIP extracts the client IP, trusting proxy headers when present.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

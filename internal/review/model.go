// Package review provides models and repositories for reviews of RAs and
// staff, including helpfulness voting and moderation status handling.
package review

import (
	"errors"
	"time"
)

// Common errors for review operations.
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating values must be between 1 and 5")
)

// Review represents a single review of a roster entity. RatingOverall is
// the arithmetic mean of clarity and helpfulness, computed at submission
// time and stored alongside the inputs.
type Review struct {
	ID       string `json:"id"`
	EntityID string `json:"entity_id"`

	RatingClarity     int     `json:"rating_clarity"`
	RatingHelpfulness int     `json:"rating_helpfulness"`
	RatingOverall     float64 `json:"rating_overall"`
	Difficulty        int     `json:"difficulty"`
	WouldTakeAgain    *bool   `json:"would_take_again,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Text              *string  `json:"text,omitempty"`

	Status          string `json:"status"`
	HelpfulCount    int    `json:"helpful_count"`
	NotHelpfulCount int    `json:"not_helpful_count"`

	// SubmitterHash is the anonymous fingerprint of the submitter, used
	// for abuse prevention. Never exposed in API responses.
	SubmitterHash string `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Validate checks that all rating fields are in the 1-5 range.
func (r *Review) Validate() error {
	for _, v := range []int{r.RatingClarity, r.RatingHelpfulness, r.Difficulty} {
		if v < 1 || v > 5 {
			return ErrInvalidRating
		}
	}
	return nil
}

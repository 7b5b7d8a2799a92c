package review

import (
	"errors"
	"slices"
)

// Moderation status constants control review visibility. Only active
// reviews appear publicly and feed rating aggregation.
const (
	// StatusActive marks a review that passed moderation and is visible.
	StatusActive = "active"

	// StatusPending marks a review awaiting moderation.
	StatusPending = "pending"

	// StatusFlagged marks a review reported by users and awaiting admin
	// review. Flagged reviews are excluded from public listings.
	StatusFlagged = "flagged"

	// StatusRemoved marks a review taken down by an administrator.
	StatusRemoved = "removed"
)

// AllowedStatuses is the exhaustive list of valid moderation statuses.
var AllowedStatuses = []string{
	StatusActive,
	StatusPending,
	StatusFlagged,
	StatusRemoved,
}

// ErrInvalidStatus is returned for a status outside AllowedStatuses.
var ErrInvalidStatus = errors.New("invalid moderation status")

// ValidateStatus checks that the status is one of the allowed values.
func ValidateStatus(status string) error {
	if !slices.Contains(AllowedStatuses, status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the review is publicly visible.
func (r *Review) IsActive() bool {
	return r.Status == StatusActive
}

// FilterVisible returns the reviews that should be visible in the given
// context. Public contexts (includeModerated=false) see only active
// reviews; moderation contexts see everything except removed reviews.
// Rating aggregation always operates on the public view.
func FilterVisible(reviews []Review, includeModerated bool) []Review {
	filtered := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		switch r.Status {
		case StatusActive:
			filtered = append(filtered, r)
		case StatusPending, StatusFlagged:
			if includeModerated {
				filtered = append(filtered, r)
			}
		case StatusRemoved:
			// Removed reviews only surface through admin listings by status.
		}
	}
	return filtered
}

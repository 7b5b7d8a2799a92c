package review

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for review data operations.
type Repository interface {
	// Create inserts a new review with a generated UUID. The review's
	// status must be set by the caller (active, or pending when held for
	// moderation).
	Create(review *Review) error

	// GetByID retrieves a review by its UUID, excluding soft-deleted reviews.
	GetByID(id string) (*Review, error)

	// ListByEntity returns all non-deleted reviews for an entity ordered
	// most-recent-first. Status filtering is the caller's concern
	// (FilterVisible); rating aggregation and ranking both rely on the
	// most-recent-first ordering.
	ListByEntity(entityID string) ([]Review, error)

	// ListByStatus returns up to limit non-deleted reviews with the given
	// status, most-recent-first. Used by the moderation dashboard.
	ListByStatus(status string, limit int) ([]Review, error)

	// SetStatus updates the moderation status of a review.
	SetStatus(id, status string) error

	// Delete soft-deletes a review by setting deleted_at.
	Delete(id string) error

	// Vote records a helpfulness vote keyed by the voter's fingerprint.
	// A voter has at most one vote per review; voting again with the
	// opposite value switches the vote, voting the same way is a no-op.
	Vote(reviewID, voterHash string, helpful bool) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex; used for testing and development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews map[string]*Review
	votes   map[string]map[string]bool // review ID -> voter hash -> helpful
}

// NewInMemoryRepository creates a new in-memory review repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reviews: make(map[string]*Review),
		votes:   make(map[string]map[string]bool),
	}
}

// Create inserts a new review with a generated UUID.
func (r *InMemoryRepository) Create(review *Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	if err := ValidateStatus(review.Status); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	review.ID = uuid.New().String()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now

	reviewCopy := *review
	r.reviews[review.ID] = &reviewCopy

	return nil
}

// GetByID retrieves a review by its UUID, excluding soft-deleted reviews.
func (r *InMemoryRepository) GetByID(id string) (*Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok || review.DeletedAt != nil {
		return nil, ErrReviewNotFound
	}

	reviewCopy := *review
	return &reviewCopy, nil
}

// ListByEntity returns all non-deleted reviews for an entity, most-recent-first.
func (r *InMemoryRepository) ListByEntity(entityID string) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Review, 0)
	for _, review := range r.reviews {
		if review.DeletedAt != nil || review.EntityID != entityID {
			continue
		}
		results = append(results, *review)
	}

	sortByCreatedDesc(results)
	return results, nil
}

// ListByStatus returns up to limit non-deleted reviews with the given status.
func (r *InMemoryRepository) ListByStatus(status string, limit int) ([]Review, error) {
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Review, 0)
	for _, review := range r.reviews {
		if review.DeletedAt != nil || review.Status != status {
			continue
		}
		results = append(results, *review)
	}

	sortByCreatedDesc(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SetStatus updates the moderation status of a review.
func (r *InMemoryRepository) SetStatus(id, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok || review.DeletedAt != nil {
		return ErrReviewNotFound
	}

	review.Status = status
	review.UpdatedAt = time.Now()
	return nil
}

// Delete soft-deletes a review by setting deleted_at.
func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok || review.DeletedAt != nil {
		return ErrReviewNotFound
	}

	now := time.Now()
	review.DeletedAt = &now
	return nil
}

// Vote records a helpfulness vote keyed by the voter's fingerprint.
func (r *InMemoryRepository) Vote(reviewID, voterHash string, helpful bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok || review.DeletedAt != nil {
		return ErrReviewNotFound
	}

	voters, ok := r.votes[reviewID]
	if !ok {
		voters = make(map[string]bool)
		r.votes[reviewID] = voters
	}

	prev, voted := voters[voterHash]
	if voted && prev == helpful {
		return nil
	}

	// Reverse the previous vote before counting the new one.
	if voted {
		if prev {
			review.HelpfulCount--
		} else {
			review.NotHelpfulCount--
		}
	}
	if helpful {
		review.HelpfulCount++
	} else {
		review.NotHelpfulCount++
	}
	voters[voterHash] = helpful

	return nil
}

// sortByCreatedDesc sorts reviews most-recent-first with ID as a stable
// tie-breaker.
func sortByCreatedDesc(reviews []Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID < reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}

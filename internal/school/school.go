// Package school provides the school model and repositories. Schools
// scope the roster: every RA and staff member belongs to exactly one.
package school

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors for school operations.
var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrMissingName    = errors.New("school name is required")
)

// School represents a school students can search for.
type School struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the school has a non-blank name.
func (s *School) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Repository defines the interface for school data operations.
type Repository interface {
	// Create inserts a new school with a generated UUID.
	Create(school *School) error

	// GetByID retrieves a school by its UUID.
	GetByID(id string) (*School, error)

	// SearchByName returns schools whose name contains the query,
	// case-insensitively, ordered by name. An empty query matches nothing.
	SearchByName(query string) ([]School, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex; used for testing and development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	schools map[string]*School
}

// NewInMemoryRepository creates a new in-memory school repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		schools: make(map[string]*School),
	}
}

// Create inserts a new school with a generated UUID.
func (r *InMemoryRepository) Create(school *School) error {
	if err := school.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	school.ID = uuid.New().String()
	school.CreatedAt = now
	school.UpdatedAt = now

	schoolCopy := *school
	r.schools[school.ID] = &schoolCopy

	return nil
}

// GetByID retrieves a school by its UUID.
func (r *InMemoryRepository) GetByID(id string) (*School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	school, ok := r.schools[id]
	if !ok {
		return nil, ErrSchoolNotFound
	}

	schoolCopy := *school
	return &schoolCopy, nil
}

// SearchByName returns schools whose name contains the query, case-insensitively.
func (r *InMemoryRepository) SearchByName(query string) ([]School, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []School{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]School, 0)
	for _, school := range r.schools {
		if strings.Contains(strings.ToLower(school.Name), query) {
			results = append(results, *school)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return results, nil
}

package roster

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for roster data operations.
type Repository interface {
	// Create inserts a new entity with a generated UUID.
	Create(entity *Entity) error

	// GetByID retrieves an entity by its UUID, excluding soft-deleted entities.
	GetByID(id string) (*Entity, error)

	// Update updates the mutable fields of an existing entity.
	Update(entity *Entity) error

	// Delete soft-deletes an entity by setting deleted_at.
	Delete(id string) error

	// ListBySchool returns all non-deleted entities of the given type in a
	// school, ordered by creation time then ID for stable results. This is
	// the candidate set fed to FindDuplicates and to search ranking.
	ListBySchool(schoolID, entityType string) ([]Entity, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex; used for testing and development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewInMemoryRepository creates a new in-memory roster repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entities: make(map[string]*Entity),
	}
}

// Create inserts a new entity with a generated UUID.
func (r *InMemoryRepository) Create(entity *Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entity.ID = uuid.New().String()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	entityCopy := *entity
	r.entities[entity.ID] = &entityCopy

	return nil
}

// GetByID retrieves an entity by its UUID, excluding soft-deleted entities.
func (r *InMemoryRepository) GetByID(id string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, ok := r.entities[id]
	if !ok || entity.DeletedAt != nil {
		return nil, ErrEntityNotFound
	}

	entityCopy := *entity
	return &entityCopy, nil
}

// Update updates the mutable fields of an existing entity.
func (r *InMemoryRepository) Update(entity *Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entities[entity.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrEntityNotFound
	}

	existing.FirstName = entity.FirstName
	existing.LastName = entity.LastName
	existing.Dorm = entity.Dorm
	existing.Floor = entity.Floor
	existing.UpdatedAt = time.Now()

	return nil
}

// Delete soft-deletes an entity by setting deleted_at.
func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.entities[id]
	if !ok || entity.DeletedAt != nil {
		return ErrEntityNotFound
	}

	now := time.Now()
	entity.DeletedAt = &now

	return nil
}

// ListBySchool returns all non-deleted entities of the given type in a school.
func (r *InMemoryRepository) ListBySchool(schoolID, entityType string) ([]Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Entity, 0)
	for _, entity := range r.entities {
		if entity.DeletedAt != nil {
			continue
		}
		if entity.SchoolID != schoolID || entity.Type != entityType {
			continue
		}
		results = append(results, *entity)
	}

	// Order by creation time, ID as tie-breaker, for stable results.
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID < results[j].ID
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return results, nil
}

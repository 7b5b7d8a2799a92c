package roster

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository is a Postgres-backed implementation of Repository.
// The schema is owned by the surrounding deployment; queries assume a
// roster_entities table with the columns referenced below.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new Postgres roster repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new entity with a generated UUID.
func (r *PostgresRepository) Create(entity *Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	now := time.Now()
	entity.ID = uuid.New().String()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO roster_entities
			(id, school_id, type, first_name, last_name, dorm, floor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entity.ID, entity.SchoolID, entity.Type, entity.FirstName, entity.LastName,
		entity.Dorm, entity.Floor, entity.CreatedAt, entity.UpdatedAt,
	)
	return err
}

// GetByID retrieves an entity by its UUID, excluding soft-deleted entities.
func (r *PostgresRepository) GetByID(id string) (*Entity, error) {
	row := r.db.QueryRow(`
		SELECT id, school_id, type, first_name, last_name, dorm, floor,
		       created_at, updated_at
		FROM roster_entities
		WHERE id = $1 AND deleted_at IS NULL`, id)

	var entity Entity
	err := row.Scan(&entity.ID, &entity.SchoolID, &entity.Type,
		&entity.FirstName, &entity.LastName, &entity.Dorm, &entity.Floor,
		&entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// Update updates the mutable fields of an existing entity.
func (r *PostgresRepository) Update(entity *Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE roster_entities
		SET first_name = $2, last_name = $3, dorm = $4, floor = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		entity.ID, entity.FirstName, entity.LastName, entity.Dorm, entity.Floor,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

// Delete soft-deletes an entity by setting deleted_at.
func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(`
		UPDATE roster_entities
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

// ListBySchool returns all non-deleted entities of the given type in a school.
func (r *PostgresRepository) ListBySchool(schoolID, entityType string) ([]Entity, error) {
	rows, err := r.db.Query(`
		SELECT id, school_id, type, first_name, last_name, dorm, floor,
		       created_at, updated_at
		FROM roster_entities
		WHERE school_id = $1 AND type = $2 AND deleted_at IS NULL
		ORDER BY created_at, id`, schoolID, entityType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Entity, 0)
	for rows.Next() {
		var entity Entity
		if err := rows.Scan(&entity.ID, &entity.SchoolID, &entity.Type,
			&entity.FirstName, &entity.LastName, &entity.Dorm, &entity.Floor,
			&entity.CreatedAt, &entity.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}

	return results, rows.Err()
}

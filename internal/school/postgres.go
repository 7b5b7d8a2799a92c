package school

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL school repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new school with a generated UUID.
func (r *PostgresRepository) Create(school *School) error {
	if err := school.Validate(); err != nil {
		return err
	}

	school.ID = uuid.New().String()

	query := `
		INSERT INTO schools (id, name, city, state)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, school.ID, school.Name, school.City, school.State).
		Scan(&school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}

	return nil
}

// GetByID retrieves a school by its UUID.
func (r *PostgresRepository) GetByID(id string) (*School, error) {
	query := `
		SELECT id, name, city, state, created_at, updated_at
		FROM schools
		WHERE id = $1`

	school := &School{}
	err := r.db.QueryRow(query, id).Scan(
		&school.ID, &school.Name, &school.City, &school.State,
		&school.CreatedAt, &school.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get school: %w", err)
	}

	return school, nil
}

// SearchByName returns schools whose name contains the query, case-insensitively.
func (r *PostgresRepository) SearchByName(query string) ([]School, error) {
	if query == "" {
		return []School{}, nil
	}

	rows, err := r.db.Query(`
		SELECT id, name, city, state, created_at, updated_at
		FROM schools
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search schools: %w", err)
	}
	defer rows.Close()

	results := make([]School, 0)
	for rows.Next() {
		var school School
		if err := rows.Scan(
			&school.ID, &school.Name, &school.City, &school.State,
			&school.CreatedAt, &school.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		results = append(results, school)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schools: %w", err)
	}

	return results, nil
}

// Package roster provides models and repositories for Resident Assistants
// and staff members, plus fuzzy duplicate detection for new submissions.
package roster

import (
	"errors"
	"strings"
	"time"
)

// EntityType distinguishes the two parallel people types reviews are
// written about.
const (
	TypeRA    = "ra"
	TypeStaff = "staff"
)

// Common errors for roster operations.
var (
	ErrEntityNotFound = errors.New("roster entity not found")
	ErrInvalidType    = errors.New("invalid entity type: must be ra or staff")
	ErrMissingName    = errors.New("first and last name are required")
)

// Entity represents an RA or staff member within a school.
// Dorm and Floor only apply to RAs and may be nil.
type Entity struct {
	ID        string  `json:"id"`
	SchoolID  string  `json:"school_id"`
	Type      string  `json:"type"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Dorm      *string `json:"dorm,omitempty"`
	Floor     *string `json:"floor,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// FullName returns the display name "First Last".
func (e *Entity) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Validate checks that the entity has a valid type and non-blank names.
func (e *Entity) Validate() error {
	if e.Type != TypeRA && e.Type != TypeStaff {
		return ErrInvalidType
	}
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return ErrMissingName
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ratemyra/api/internal/school"
	"github.com/ratemyra/api/internal/validate"
)

// SchoolHandlers contains HTTP handlers for school operations.
type SchoolHandlers struct {
	repo school.Repository
}

// NewSchoolHandlers creates a new school handlers instance.
func NewSchoolHandlers(repo school.Repository) *SchoolHandlers {
	return &SchoolHandlers{repo: repo}
}

type createSchoolRequest struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// CreateSchool handles POST /schools
func (h *SchoolHandlers) CreateSchool(w http.ResponseWriter, r *http.Request) {
	var req createSchoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	name, err := validate.SchoolName(req.Name)
	if err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid school name: "+err.Error())
		return
	}

	s := &school.School{
		Name:  validate.SanitizeHTML(name),
		City:  validate.SanitizeHTML(req.City),
		State: validate.SanitizeHTML(req.State),
	}
	if err := s.Validate(); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	if err := h.repo.Create(s); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create school")
		return
	}

	writeJSON(w, http.StatusCreated, s)
}

// GetSchool handles GET /schools/{id}
func (h *SchoolHandlers) GetSchool(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeSchoolNotFound, "School not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch school")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// SearchSchools handles GET /schools/search?q=...
func (h *SchoolHandlers) SearchSchools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Query parameter q is required")
		return
	}

	results, err := h.repo.SearchByName(query)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to search schools")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schools": results,
		"total":   len(results),
	})
}

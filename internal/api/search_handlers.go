package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ratemyra/api/internal/ranking"
	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/roster"
	"github.com/ratemyra/api/internal/school"
)

// SearchHandlers contains HTTP handlers for ranked roster search.
type SearchHandlers struct {
	roster  roster.Repository
	schools school.Repository
	reviews review.Repository
}

// NewSearchHandlers creates a new search handlers instance.
func NewSearchHandlers(rosterRepo roster.Repository, schools school.Repository, reviews review.Repository) *SearchHandlers {
	return &SearchHandlers{
		roster:  rosterRepo,
		schools: schools,
		reviews: reviews,
	}
}

// SearchRoster handles GET /schools/{id}/roster/search?q=...&type=ra|staff
//
// Name-matched entities are ranked by a composite of rating quality,
// review volume and recency rather than raw name order, so well-reviewed
// people surface first among equally good name matches.
func (h *SearchHandlers) SearchRoster(w http.ResponseWriter, r *http.Request) {
	schoolID := r.PathValue("id")

	if _, err := h.schools.GetByID(schoolID); err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeSchoolNotFound, "School not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch school")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Query parameter q is required")
		return
	}

	entities, err := h.searchEntities(schoolID, r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, roster.ErrInvalidType) {
			fail(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to search roster")
		return
	}

	candidates := make([]ranking.Candidate, 0)
	for _, entity := range entities {
		if !nameMatches(&entity, query) {
			continue
		}
		all, err := h.reviews.ListByEntity(entity.ID)
		if err != nil {
			fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load reviews")
			return
		}
		candidates = append(candidates, ranking.Candidate{
			Entity:  entity,
			Reviews: review.FilterVisible(all, false),
		})
	}

	results := ranking.Rank(candidates, ranking.DefaultWeights(), time.Now())

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"total":   len(results),
	})
}

// searchEntities fetches the candidate pool, optionally filtered by type.
func (h *SearchHandlers) searchEntities(schoolID, entityType string) ([]roster.Entity, error) {
	switch entityType {
	case roster.TypeRA, roster.TypeStaff:
		return h.roster.ListBySchool(schoolID, entityType)
	case "":
		ras, err := h.roster.ListBySchool(schoolID, roster.TypeRA)
		if err != nil {
			return nil, err
		}
		staff, err := h.roster.ListBySchool(schoolID, roster.TypeStaff)
		if err != nil {
			return nil, err
		}
		return append(ras, staff...), nil
	default:
		return nil, roster.ErrInvalidType
	}
}

// nameMatches reports whether the query is a case-insensitive substring
// of the entity's first, last or full name.
func nameMatches(e *roster.Entity, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.FullName()), q)
}

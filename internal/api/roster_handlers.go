package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ratemyra/api/internal/cache"
	"github.com/ratemyra/api/internal/rating"
	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/roster"
	"github.com/ratemyra/api/internal/school"
	"github.com/ratemyra/api/internal/validate"
)

// RosterHandlers contains HTTP handlers for roster entity operations.
type RosterHandlers struct {
	repo    roster.Repository
	schools school.Repository
	reviews review.Repository
	cache   *cache.SummaryCache
}

// NewRosterHandlers creates a new roster handlers instance. cache may be
// nil, in which case summaries are computed on every request.
func NewRosterHandlers(repo roster.Repository, schools school.Repository, reviews review.Repository, summaryCache *cache.SummaryCache) *RosterHandlers {
	return &RosterHandlers{
		repo:    repo,
		schools: schools,
		reviews: reviews,
		cache:   summaryCache,
	}
}

type createEntityRequest struct {
	Type      string  `json:"type"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Dorm      *string `json:"dorm,omitempty"`
	Floor     *string `json:"floor,omitempty"`

	// Confirmed acknowledges a previous potential_duplicate response and
	// forces creation despite near-matching roster entries.
	Confirmed bool `json:"confirmed,omitempty"`
}

type updateEntityRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Dorm      *string `json:"dorm,omitempty"`
	Floor     *string `json:"floor,omitempty"`
}

// entityProfile pairs an entity with its aggregated rating summary.
type entityProfile struct {
	roster.Entity
	Summary rating.Summary `json:"summary"`
}

// CreateEntity handles POST /schools/{id}/roster
//
// The submission is checked against the school's existing roster of the
// same type. An exact name match is rejected outright; near matches are
// rejected with the matches attached unless the request carries
// confirmed=true.
func (h *RosterHandlers) CreateEntity(w http.ResponseWriter, r *http.Request) {
	schoolID := r.PathValue("id")

	if _, err := h.schools.GetByID(schoolID); err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeSchoolNotFound, "School not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch school")
		return
	}

	var req createEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	firstName, err := validate.Name(req.FirstName)
	if err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid first name: "+err.Error())
		return
	}
	lastName, err := validate.Name(req.LastName)
	if err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid last name: "+err.Error())
		return
	}

	entity := &roster.Entity{
		SchoolID:  schoolID,
		Type:      req.Type,
		FirstName: firstName,
		LastName:  lastName,
		Dorm:      req.Dorm,
		Floor:     req.Floor,
	}
	if err := entity.Validate(); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	existing, err := h.repo.ListBySchool(schoolID, entity.Type)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to check for duplicates")
		return
	}

	matches := roster.FindDuplicates(firstName, lastName, existing)
	for _, m := range matches {
		if m.IsExact(firstName, lastName) {
			ctx := setErrCtx(r, ErrCodeDuplicateEntity)
			WriteErrorDetail(w, ctx, http.StatusConflict, ErrorDetail{
				Code:    ErrCodeDuplicateEntity,
				Message: "This person is already on the roster",
				Matches: []roster.Match{m},
			})
			return
		}
	}
	if len(matches) > 0 && !req.Confirmed {
		ctx := setErrCtx(r, ErrCodePotentialDuplicate)
		WriteErrorDetail(w, ctx, http.StatusConflict, ErrorDetail{
			Code:    ErrCodePotentialDuplicate,
			Message: "Similar roster entries exist. Resubmit with confirmed=true to create anyway.",
			Matches: matches,
		})
		return
	}

	if err := h.repo.Create(entity); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create roster entry")
		return
	}

	writeJSON(w, http.StatusCreated, entity)
}

// ListRoster handles GET /schools/{id}/roster?type=ra|staff
//
// Without a type filter both RAs and staff are returned.
func (h *RosterHandlers) ListRoster(w http.ResponseWriter, r *http.Request) {
	schoolID := r.PathValue("id")

	if _, err := h.schools.GetByID(schoolID); err != nil {
		if errors.Is(err, school.ErrSchoolNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeSchoolNotFound, "School not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch school")
		return
	}

	entityType := r.URL.Query().Get("type")
	entities, err := h.listEntities(schoolID, entityType)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidType) {
			fail(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list roster")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entities": entities,
		"total":    len(entities),
	})
}

// listEntities fetches entities of one type, or both types when
// entityType is empty.
func (h *RosterHandlers) listEntities(schoolID, entityType string) ([]roster.Entity, error) {
	switch entityType {
	case roster.TypeRA, roster.TypeStaff:
		return h.repo.ListBySchool(schoolID, entityType)
	case "":
		ras, err := h.repo.ListBySchool(schoolID, roster.TypeRA)
		if err != nil {
			return nil, err
		}
		staff, err := h.repo.ListBySchool(schoolID, roster.TypeStaff)
		if err != nil {
			return nil, err
		}
		return append(ras, staff...), nil
	default:
		return nil, roster.ErrInvalidType
	}
}

// GetEntity handles GET /roster/{id}
//
// The response includes the entity and its aggregated rating summary.
// Summaries are served from the cache when available and recomputed
// from the active reviews on a miss.
func (h *RosterHandlers) GetEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entity, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, roster.ErrEntityNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeEntityNotFound, "Roster entry not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch roster entry")
		return
	}

	summary, err := h.entitySummary(r, id)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute rating summary")
		return
	}

	writeJSON(w, http.StatusOK, entityProfile{Entity: *entity, Summary: *summary})
}

// entitySummary returns the rating summary for an entity, consulting
// the cache first. Cache write failures are swallowed; the summary is
// still returned.
func (h *RosterHandlers) entitySummary(r *http.Request, entityID string) (*rating.Summary, error) {
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), entityID); err == nil {
			return cached, nil
		}
	}

	reviews, err := h.reviews.ListByEntity(entityID)
	if err != nil {
		return nil, err
	}

	summary := rating.Summarize(review.FilterVisible(reviews, false), time.Now())
	if h.cache != nil {
		_ = h.cache.Set(r.Context(), entityID, &summary)
	}
	return &summary, nil
}

// UpdateEntity handles PUT /roster/{id} (admin only)
func (h *RosterHandlers) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entity, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, roster.ErrEntityNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeEntityNotFound, "Roster entry not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch roster entry")
		return
	}

	var req updateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	if req.FirstName != "" {
		firstName, err := validate.Name(req.FirstName)
		if err != nil {
			fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid first name: "+err.Error())
			return
		}
		entity.FirstName = firstName
	}
	if req.LastName != "" {
		lastName, err := validate.Name(req.LastName)
		if err != nil {
			fail(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid last name: "+err.Error())
			return
		}
		entity.LastName = lastName
	}
	if req.Dorm != nil {
		entity.Dorm = req.Dorm
	}
	if req.Floor != nil {
		entity.Floor = req.Floor
	}

	if err := h.repo.Update(entity); err != nil {
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update roster entry")
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// DeleteEntity handles DELETE /roster/{id} (admin only)
func (h *RosterHandlers) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, roster.ErrEntityNotFound) {
			fail(w, r, http.StatusNotFound, ErrCodeEntityNotFound, "Roster entry not found")
			return
		}
		fail(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete roster entry")
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(r.Context(), id)
	}

	w.WriteHeader(http.StatusNoContent)
}

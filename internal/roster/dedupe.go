package roster

import (
	"sort"
	"strings"

	"github.com/ratemyra/api/internal/similarity"
)

// DuplicateThreshold is the minimum averaged name similarity for an
// existing entity to be reported as a probable duplicate. Below it,
// recall drops; above it, false positives rise.
const DuplicateThreshold = 0.8

// Match describes an existing entity that probably refers to the same
// person as a candidate submission. Transient; never persisted.
type Match struct {
	Entity              Entity  `json:"entity"`
	Similarity          float64 `json:"similarity"`
	FirstNameSimilarity float64 `json:"first_name_similarity"`
	LastNameSimilarity  float64 `json:"last_name_similarity"`
}

// IsExact reports whether this match is an exact name match (as opposed
// to a potential duplicate needing confirmation): similarity 1.0 and
// case-insensitively equal names. Callers decide how to react; this is
// only the classification helper.
func (m Match) IsExact(firstName, lastName string) bool {
	return m.Similarity == 1.0 &&
		strings.EqualFold(m.Entity.FirstName, strings.TrimSpace(firstName)) &&
		strings.EqualFold(m.Entity.LastName, strings.TrimSpace(lastName))
}

// FindDuplicates scores every entity in the given roster against the
// candidate first/last name and returns those whose averaged first/last
// name similarity clears DuplicateThreshold, ordered by descending
// confidence. Ties keep the roster's original order. An empty roster
// yields an empty (non-nil) result, never an error.
//
// The roster is expected to be pre-scoped by the caller (same school,
// active entities only); no filtering happens here.
func FindDuplicates(firstName, lastName string, roster []Entity) []Match {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	matches := make([]Match, 0, len(roster))
	for _, entity := range roster {
		firstSim := similarity.Similarity(firstName, entity.FirstName)
		lastSim := similarity.Similarity(lastName, entity.LastName)
		avg := (firstSim + lastSim) / 2

		if avg < DuplicateThreshold {
			continue
		}

		matches = append(matches, Match{
			Entity:              entity,
			Similarity:          avg,
			FirstNameSimilarity: firstSim,
			LastNameSimilarity:  lastSim,
		})
	}

	// Stable sort keeps data-source order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}

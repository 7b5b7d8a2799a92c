package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/ratemyra/api/internal/rating"
	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/roster"
)

// oneYear is the recency window shared with the rating aggregator.
const oneYear = 365 * 24 * time.Hour

// volumeSaturation is the review count at which the volume score reaches
// 1.0. The score is not clamped: counts beyond it push slightly above 1.
const volumeSaturation = 100

// Candidate pairs an entity with its reviews for ranking. Reviews must
// be ordered most-recent-first, as the repositories return them; the
// recency component reads only the first element.
type Candidate struct {
	Entity  roster.Entity
	Reviews []review.Review
}

// Result is a ranked search result. The composite score is an internal
// sort key and deliberately unexported so it never crosses the API
// boundary.
type Result struct {
	Entity                   roster.Entity `json:"entity"`
	Rating                   *float64      `json:"rating"`
	TotalReviews             int           `json:"total_reviews"`
	AverageDifficulty        *float64      `json:"average_difficulty"`
	WouldTakeAgainPercentage *int          `json:"would_take_again_percentage"`

	score float64
}

// Rank scores every candidate and returns results ordered by descending
// composite score. Ties keep the candidate input order.
func Rank(candidates []Candidate, weights Weights, now time.Time) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, score(c, weights, now))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	return results
}

// score computes the composite relevance score for one candidate.
func score(c Candidate, weights Weights, now time.Time) Result {
	weighted := rating.WeightedRating(c.Reviews, now)

	normalizedRating := 0.0
	if weighted != nil {
		normalizedRating = *weighted / 5
	}

	volumeScore := 0.0
	if n := len(c.Reviews); n > 0 {
		volumeScore = math.Log(float64(n)+1) / math.Log(volumeSaturation)
	}

	// Age of the single most recent review, as a fraction of a year.
	// With zero reviews this stays 0 ("maximally recent"), matching the
	// reference behavior so unreviewed entities are not buried.
	recencyScore := 0.0
	if len(c.Reviews) > 0 {
		recencyScore = float64(now.Sub(c.Reviews[0].CreatedAt)) / float64(oneYear)
		if recencyScore > 1 {
			recencyScore = 1
		}
	}

	return Result{
		Entity:                   c.Entity,
		Rating:                   weighted,
		TotalReviews:             len(c.Reviews),
		AverageDifficulty:        rating.AverageDifficulty(c.Reviews),
		WouldTakeAgainPercentage: rating.WouldTakeAgainPercentage(c.Reviews),
		score: normalizedRating*weights.Rating +
			volumeScore*weights.Volume +
			(1-recencyScore)*weights.Freshness,
	}
}

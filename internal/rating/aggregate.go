// Package rating computes the summary statistics shown on a profile:
// time-decayed weighted ratings, star distributions, and derived
// percentages. All functions are pure and total; empty input yields nil
// rather than an error.
package rating

import (
	"math"
	"time"

	"github.com/ratemyra/api/internal/review"
)

// MinReviews is the default cold-start threshold: below it no weighted
// rating is shown, so a single 5-star review cannot display as "5.0".
const MinReviews = 3

// oneYear is the recency window for weight decay.
const oneYear = 365 * 24 * time.Hour

// OverallRating returns the arithmetic mean of the clarity and
// helpfulness ratings.
func OverallRating(clarity, helpfulness int) float64 {
	return float64(clarity+helpfulness) / 2
}

// WeightedRating computes the recency-weighted average of RatingOverall
// across reviews, rounded to one decimal place, using MinReviews as the
// cold-start threshold. Returns nil below the threshold.
func WeightedRating(reviews []review.Review, now time.Time) *float64 {
	return WeightedRatingMin(reviews, MinReviews, now)
}

// WeightedRatingMin is WeightedRating with an explicit minimum review
// count. Each review's weight decays linearly from 2 (brand new) to 1
// (one year old or older):
//
//	ageRatio = max(0, 1 - age/oneYear)
//	weight   = 1 + ageRatio
func WeightedRatingMin(reviews []review.Review, minReviews int, now time.Time) *float64 {
	if len(reviews) < minReviews {
		return nil
	}

	var weightedSum, weightTotal float64
	for _, r := range reviews {
		ageRatio := 1 - float64(now.Sub(r.CreatedAt))/float64(oneYear)
		if ageRatio < 0 {
			ageRatio = 0
		}
		weight := 1 + ageRatio

		weightedSum += r.RatingOverall * weight
		weightTotal += weight
	}

	rounded := roundTo1(weightedSum / weightTotal)
	return &rounded
}

// Distribution buckets reviews by rounded RatingOverall into star counts
// 1 through 5. All five buckets are always present; ratings that round
// outside [1, 5] are silently dropped.
func Distribution(reviews []review.Review) map[int]int {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range reviews {
		star := int(math.Round(r.RatingOverall))
		if star < 1 || star > 5 {
			continue
		}
		dist[star]++
	}
	return dist
}

// AverageDifficulty returns the mean difficulty rounded to one decimal
// place, or nil for empty input.
func AverageDifficulty(reviews []review.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}

	var sum int
	for _, r := range reviews {
		sum += r.Difficulty
	}

	avg := roundTo1(float64(sum) / float64(len(reviews)))
	return &avg
}

// WouldTakeAgainPercentage returns the percentage of answered
// would-take-again responses that are true, rounded to the nearest
// integer. Reviews that left the question unanswered are excluded; nil
// is returned when no review answered it.
func WouldTakeAgainPercentage(reviews []review.Review) *int {
	var answered, yes int
	for _, r := range reviews {
		if r.WouldTakeAgain == nil {
			continue
		}
		answered++
		if *r.WouldTakeAgain {
			yes++
		}
	}

	if answered == 0 {
		return nil
	}

	pct := int(math.Round(100 * float64(yes) / float64(answered)))
	return &pct
}

// Summary bundles the aggregate statistics for one entity's profile.
type Summary struct {
	Rating                   *float64    `json:"rating"`
	TotalReviews             int         `json:"total_reviews"`
	Distribution             map[int]int `json:"distribution"`
	AverageDifficulty        *float64    `json:"average_difficulty"`
	WouldTakeAgainPercentage *int        `json:"would_take_again_percentage"`
}

// Summarize computes the full aggregate summary for a set of reviews.
// Callers are expected to pass only publicly visible (active) reviews.
func Summarize(reviews []review.Review, now time.Time) Summary {
	return Summary{
		Rating:                   WeightedRating(reviews, now),
		TotalReviews:             len(reviews),
		Distribution:             Distribution(reviews),
		AverageDifficulty:        AverageDifficulty(reviews),
		WouldTakeAgainPercentage: WouldTakeAgainPercentage(reviews),
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

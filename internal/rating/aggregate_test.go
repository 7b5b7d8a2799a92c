package rating

import (
	"testing"
	"time"

	"github.com/ratemyra/api/internal/review"
)

func reviewAt(overall float64, age time.Duration, now time.Time) review.Review {
	return review.Review{
		RatingOverall: overall,
		CreatedAt:     now.Add(-age),
	}
}

func TestOverallRating(t *testing.T) {
	tests := []struct {
		clarity     int
		helpfulness int
		want        float64
	}{
		{5, 5, 5.0},
		{1, 1, 1.0},
		{4, 5, 4.5},
		{2, 3, 2.5},
	}

	for _, tt := range tests {
		if got := OverallRating(tt.clarity, tt.helpfulness); got != tt.want {
			t.Errorf("OverallRating(%d, %d) = %v, want %v", tt.clarity, tt.helpfulness, got, tt.want)
		}
	}
}

func TestWeightedRating_BelowThreshold(t *testing.T) {
	now := time.Now()
	reviews := []review.Review{
		reviewAt(5.0, 0, now),
		reviewAt(5.0, time.Hour, now),
	}

	if got := WeightedRating(reviews, now); got != nil {
		t.Errorf("WeightedRating() with 2 reviews = %v, want nil", *got)
	}
	if got := WeightedRating(nil, now); got != nil {
		t.Errorf("WeightedRating(nil) = %v, want nil", *got)
	}
}

func TestWeightedRating_ThreeIdenticalFiveStars(t *testing.T) {
	now := time.Now()
	reviews := []review.Review{
		reviewAt(5.0, 0, now),
		reviewAt(5.0, 0, now),
		reviewAt(5.0, 0, now),
	}

	got := WeightedRating(reviews, now)
	if got == nil {
		t.Fatal("WeightedRating() = nil, want 5.0")
	}
	if *got != 5.0 {
		t.Errorf("WeightedRating() = %v, want 5.0", *got)
	}
}

func TestWeightedRating_RecentReviewsWeighMore(t *testing.T) {
	now := time.Now()

	// A fresh 5 and two old 1s: the 5 carries weight 2 against weight 1
	// each for the old ones, pulling the average above the plain mean.
	reviews := []review.Review{
		reviewAt(5.0, 0, now),
		reviewAt(1.0, 2*365*24*time.Hour, now),
		reviewAt(1.0, 2*365*24*time.Hour, now),
	}

	got := WeightedRating(reviews, now)
	if got == nil {
		t.Fatal("WeightedRating() = nil")
	}
	// (5*2 + 1 + 1) / 4 = 3.0 versus a plain mean of ~2.3.
	if *got != 3.0 {
		t.Errorf("WeightedRating() = %v, want 3.0", *got)
	}
}

func TestWeightedRating_OldReviewsFloorAtWeightOne(t *testing.T) {
	now := time.Now()

	// Five-year-old reviews must weigh exactly 1, not negative.
	reviews := []review.Review{
		reviewAt(4.0, 5*365*24*time.Hour, now),
		reviewAt(2.0, 5*365*24*time.Hour, now),
		reviewAt(3.0, 5*365*24*time.Hour, now),
	}

	got := WeightedRating(reviews, now)
	if got == nil {
		t.Fatal("WeightedRating() = nil")
	}
	if *got != 3.0 {
		t.Errorf("WeightedRating() = %v, want unweighted mean 3.0", *got)
	}
}

func TestWeightedRating_RoundsToOneDecimal(t *testing.T) {
	now := time.Now()
	reviews := []review.Review{
		reviewAt(5.0, 0, now),
		reviewAt(4.0, 0, now),
		reviewAt(4.0, 0, now),
	}

	got := WeightedRating(reviews, now)
	if got == nil {
		t.Fatal("WeightedRating() = nil")
	}
	// Equal weights: mean is 4.333..., rounds to 4.3.
	if *got != 4.3 {
		t.Errorf("WeightedRating() = %v, want 4.3", *got)
	}
}

func TestDistribution(t *testing.T) {
	now := time.Now()
	reviews := []review.Review{
		reviewAt(1.4, 0, now), // rounds to 1
		reviewAt(1.6, 0, now), // rounds to 2
		reviewAt(5.0, 0, now),
	}

	got := Distribution(reviews)
	want := map[int]int{1: 1, 2: 1, 3: 0, 4: 0, 5: 1}
	for star, count := range want {
		if got[star] != count {
			t.Errorf("Distribution()[%d] = %d, want %d", star, got[star], count)
		}
	}
	if len(got) != 5 {
		t.Errorf("Distribution() has %d buckets, want all 5 present", len(got))
	}
}

func TestDistribution_DropsOutOfRange(t *testing.T) {
	now := time.Now()
	reviews := []review.Review{
		reviewAt(0.4, 0, now), // rounds to 0, dropped
		reviewAt(5.6, 0, now), // rounds to 6, dropped
		reviewAt(3.0, 0, now),
	}

	got := Distribution(reviews)
	total := 0
	for _, count := range got {
		total += count
	}
	if total != 1 {
		t.Errorf("Distribution() counted %d reviews, want 1 (out-of-range dropped)", total)
	}
}

func TestAverageDifficulty(t *testing.T) {
	if got := AverageDifficulty(nil); got != nil {
		t.Errorf("AverageDifficulty(nil) = %v, want nil", *got)
	}

	reviews := []review.Review{
		{Difficulty: 2},
		{Difficulty: 3},
		{Difficulty: 5},
	}
	got := AverageDifficulty(reviews)
	if got == nil {
		t.Fatal("AverageDifficulty() = nil")
	}
	if *got != 3.3 {
		t.Errorf("AverageDifficulty() = %v, want 3.3", *got)
	}
}

func TestWouldTakeAgainPercentage(t *testing.T) {
	yes, no := true, false

	// [true, true, false, null]: the null is excluded, 2/3 rounds to 67.
	reviews := []review.Review{
		{WouldTakeAgain: &yes},
		{WouldTakeAgain: &yes},
		{WouldTakeAgain: &no},
		{WouldTakeAgain: nil},
	}

	got := WouldTakeAgainPercentage(reviews)
	if got == nil {
		t.Fatal("WouldTakeAgainPercentage() = nil")
	}
	if *got != 67 {
		t.Errorf("WouldTakeAgainPercentage() = %d, want 67", *got)
	}
}

func TestWouldTakeAgainPercentage_NoAnswers(t *testing.T) {
	reviews := []review.Review{
		{WouldTakeAgain: nil},
		{WouldTakeAgain: nil},
	}
	if got := WouldTakeAgainPercentage(reviews); got != nil {
		t.Errorf("WouldTakeAgainPercentage() = %d, want nil when nothing answered", *got)
	}
	if got := WouldTakeAgainPercentage(nil); got != nil {
		t.Errorf("WouldTakeAgainPercentage(nil) = %d, want nil", *got)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	yes := true
	reviews := []review.Review{
		{RatingOverall: 5.0, Difficulty: 2, WouldTakeAgain: &yes, CreatedAt: now},
		{RatingOverall: 4.0, Difficulty: 3, CreatedAt: now},
		{RatingOverall: 4.5, Difficulty: 1, CreatedAt: now},
	}

	s := Summarize(reviews, now)
	if s.Rating == nil || *s.Rating != 4.5 {
		t.Errorf("Summary.Rating = %v, want 4.5", s.Rating)
	}
	if s.TotalReviews != 3 {
		t.Errorf("Summary.TotalReviews = %d, want 3", s.TotalReviews)
	}
	if s.AverageDifficulty == nil || *s.AverageDifficulty != 2.0 {
		t.Errorf("Summary.AverageDifficulty = %v, want 2.0", s.AverageDifficulty)
	}
	if s.WouldTakeAgainPercentage == nil || *s.WouldTakeAgainPercentage != 100 {
		t.Errorf("Summary.WouldTakeAgainPercentage = %v, want 100", s.WouldTakeAgainPercentage)
	}
}

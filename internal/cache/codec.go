package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ratemyra/api/internal/rating"
)

// cachedSummary is the CBOR wire form of a rating summary. It mirrors
// rating.Summary with explicit field keys so the cached layout stays
// stable across refactors of the rating package.
type cachedSummary struct {
	Rating                   *float64    `cbor:"rating,omitempty"`
	TotalReviews             int         `cbor:"total_reviews"`
	Distribution             map[int]int `cbor:"distribution"`
	AverageDifficulty        *float64    `cbor:"average_difficulty,omitempty"`
	WouldTakeAgainPercentage *int        `cbor:"would_take_again,omitempty"`
}

// EncodeSummary serializes a rating summary to CBOR.
func EncodeSummary(summary *rating.Summary) ([]byte, error) {
	data, err := cbor.Marshal(cachedSummary{
		Rating:                   summary.Rating,
		TotalReviews:             summary.TotalReviews,
		Distribution:             summary.Distribution,
		AverageDifficulty:        summary.AverageDifficulty,
		WouldTakeAgainPercentage: summary.WouldTakeAgainPercentage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return data, nil
}

// DecodeSummary deserializes a CBOR-encoded rating summary.
func DecodeSummary(data []byte) (*rating.Summary, error) {
	var cached cachedSummary
	if err := cbor.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &rating.Summary{
		Rating:                   cached.Rating,
		TotalReviews:             cached.TotalReviews,
		Distribution:             cached.Distribution,
		AverageDifficulty:        cached.AverageDifficulty,
		WouldTakeAgainPercentage: cached.WouldTakeAgainPercentage,
	}, nil
}

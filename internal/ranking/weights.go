// Package ranking orders search results by a blended relevance score
// combining rating quality, review volume, and review freshness, since
// raw alphabetical or date order is a poor proxy for "best match".
package ranking

// Weights defines how much each factor contributes to the composite
// search score.
//
// Formula: score = (rating/5)*Rating + (ln(n+1)/ln(100))*Volume +
// (1 - recency)*Freshness
//
// The defaults favor quality first, then popularity, with freshness as a
// light tie-breaker.
type Weights struct {
	Rating    float64 // normalized weighted rating weight (default: 0.6)
	Volume    float64 // review volume weight (default: 0.3)
	Freshness float64 // review recency weight (default: 0.1)
}

// DefaultWeights returns the default ranking weights.
func DefaultWeights() Weights {
	return Weights{
		Rating:    0.6,
		Volume:    0.3,
		Freshness: 0.1,
	}
}

// Package cache provides a Redis-backed cache for rating summaries.
// Summaries are recomputed from all of an entity's reviews on every
// read, so hot entities cache the result under a short TTL and any
// write to an entity's reviews invalidates its key.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratemyra/api/internal/rating"
)

// ErrMiss is returned when no cached summary exists for an entity.
var ErrMiss = errors.New("cache miss")

// DefaultTTL bounds how stale a cached summary may be.
const DefaultTTL = 5 * time.Minute

// SummaryCache caches computed rating summaries keyed by entity ID.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a summary cache. A non-positive ttl falls
// back to DefaultTTL.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(entityID string) string {
	return "rating:summary:" + entityID
}

// Get returns the cached summary for an entity, or ErrMiss.
func (c *SummaryCache) Get(ctx context.Context, entityID string) (*rating.Summary, error) {
	data, err := c.client.Get(ctx, summaryKey(entityID)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	summary, err := DecodeSummary(data)
	if err != nil {
		// A corrupt entry is treated as a miss so callers recompute.
		return nil, ErrMiss
	}
	return summary, nil
}

// Set stores a summary under the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, entityID string, summary *rating.Summary) error {
	data, err := EncodeSummary(summary)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, summaryKey(entityID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary for an entity. Called after any
// review write that touches the entity.
func (c *SummaryCache) Invalidate(ctx context.Context, entityID string) error {
	if err := c.client.Del(ctx, summaryKey(entityID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

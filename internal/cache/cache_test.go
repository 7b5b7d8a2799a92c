package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratemyra/api/internal/rating"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func sampleSummary() *rating.Summary {
	return &rating.Summary{
		Rating:                   floatPtr(4.3),
		TotalReviews:             12,
		Distribution:             map[int]int{1: 0, 2: 1, 3: 2, 4: 4, 5: 5},
		AverageDifficulty:        floatPtr(2.8),
		WouldTakeAgainPercentage: intPtr(75),
	}
}

func TestEncodeDecodeSummary(t *testing.T) {
	original := sampleSummary()

	data, err := EncodeSummary(original)
	if err != nil {
		t.Fatalf("EncodeSummary failed: %v", err)
	}

	decoded, err := DecodeSummary(data)
	if err != nil {
		t.Fatalf("DecodeSummary failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n  original: %+v\n  decoded:  %+v", original, decoded)
	}
}

func TestEncodeDecodeSummaryNilFields(t *testing.T) {
	original := &rating.Summary{
		TotalReviews: 1,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 0},
	}

	data, err := EncodeSummary(original)
	if err != nil {
		t.Fatalf("EncodeSummary failed: %v", err)
	}

	decoded, err := DecodeSummary(data)
	if err != nil {
		t.Fatalf("DecodeSummary failed: %v", err)
	}

	if decoded.Rating != nil || decoded.AverageDifficulty != nil || decoded.WouldTakeAgainPercentage != nil {
		t.Error("expected nil optional fields to survive the round trip")
	}
}

func TestDecodeSummaryInvalid(t *testing.T) {
	if _, err := DecodeSummary([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

// newTestCache connects to a local Redis, skipping when unavailable.
func newTestCache(t *testing.T) *SummaryCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return NewSummaryCache(client, time.Minute)
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	entityID := "cache-test-entity"
	defer c.Invalidate(ctx, entityID)

	if _, err := c.Get(ctx, entityID); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss before Set, got %v", err)
	}

	original := sampleSummary()
	if err := c.Set(ctx, entityID, original); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, entityID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(original, got) {
		t.Errorf("cached summary mismatch:\n  original: %+v\n  got:      %+v", original, got)
	}

	if err := c.Invalidate(ctx, entityID); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := c.Get(ctx, entityID); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after Invalidate, got %v", err)
	}
}

func TestNewSummaryCacheDefaultTTL(t *testing.T) {
	c := NewSummaryCache(nil, 0)
	if c.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL fallback, got %v", c.ttl)
	}
}

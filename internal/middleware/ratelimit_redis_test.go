package middleware

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisTestClient connects to a local Redis, skipping the test when
// unavailable.
func redisTestClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	t.Cleanup(func() { client.Close() })

	return client
}

func redisTestKey(prefix string) string {
	return "reviewlimit-" + prefix + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func TestRedisRateLimitStore_QuotaCountdown(t *testing.T) {
	client := redisTestClient(t)
	store := NewRedisRateLimitStore(client)
	cfg := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Minute}

	key := redisTestKey("quota")
	ctx := context.Background()
	defer client.Del(ctx, key)

	for i := 0; i < 5; i++ {
		allowed, remaining, _ := store.Allow(ctx, key, cfg)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 4 - i; remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, remaining, want)
		}
	}

	allowed, remaining, retryAfter := store.Allow(ctx, key, cfg)
	if allowed {
		t.Error("request past the limit should be blocked")
	}
	if remaining != 0 {
		t.Errorf("blocked request remaining = %d, want 0", remaining)
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want within (0, 60]", retryAfter)
	}
}

func TestRedisRateLimitStore_KeysAreIndependent(t *testing.T) {
	client := redisTestClient(t)
	store := NewRedisRateLimitStore(client)
	cfg := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}

	keyA := redisTestKey("submitter-a")
	keyB := redisTestKey("submitter-b")
	ctx := context.Background()
	defer client.Del(ctx, keyA, keyB)

	for _, key := range []string{keyA, keyB} {
		if allowed, _, _ := store.Allow(ctx, key, cfg); !allowed {
			t.Errorf("first request for %s should be allowed", key)
		}
		if allowed, _, _ := store.Allow(ctx, key, cfg); allowed {
			t.Errorf("second request for %s should be blocked", key)
		}
	}
}

func TestRedisRateLimitStore_WindowExpiry(t *testing.T) {
	client := redisTestClient(t)
	store := NewRedisRateLimitStore(client)
	cfg := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 100 * time.Millisecond}

	key := redisTestKey("expiry")
	ctx := context.Background()
	defer client.Del(ctx, key)

	store.Allow(ctx, key, cfg)
	if allowed, _, _ := store.Allow(ctx, key, cfg); allowed {
		t.Fatal("request inside the window should be blocked")
	}

	time.Sleep(150 * time.Millisecond)

	if allowed, _, _ := store.Allow(ctx, key, cfg); !allowed {
		t.Error("request after the window expires should be allowed")
	}
}

func TestRedisRateLimitStore_FailOpen(t *testing.T) {
	// Unreachable port stands in for a Redis outage.
	client := redis.NewClient(&redis.Options{Addr: "localhost:9999"})
	defer client.Close()

	store := NewRedisRateLimitStore(client)
	cfg := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Minute}

	allowed, remaining, _ := store.Allow(context.Background(), "any-key", cfg)
	if !allowed {
		t.Error("an unreachable Redis must not block traffic")
	}
	if remaining != cfg.RequestsPerWindow {
		t.Errorf("remaining = %d, want the full quota on error", remaining)
	}
}

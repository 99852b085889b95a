// Package cache fronts anonymous-safe backend responses (job search pages,
// public profiles) and tracks login attempt rate limits.
package cache

import (
	"context"
	"time"
)

// Sliding window for login/registration attempts per email.
const (
	LoginRateLimitWindow = 10 * time.Minute
	LoginRateLimitMax    = 10
)

// Store is the cache and rate-limit backend.
// Implementations: redis.Client, memory.Client (when REDIS_URL is unset).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	CheckLoginRateLimit(ctx context.Context, email string) (allowed bool, err error)
	Close() error
}

package startup

import (
	"context"
	"time"

	"github.com/proconnect/internal/cache"
	"github.com/proconnect/internal/cache/memory"
	redisstore "github.com/proconnect/internal/cache/redis"
	"github.com/proconnect/internal/logger"
)

// ConnectCacheWithRetry connects to Redis with retries; an empty URL or an
// exhausted retry budget falls back to the in-memory store; the cache is
// an optimization, not a dependency the service should die for.
func ConnectCacheWithRetry(redisURL string, maxWait time.Duration) cache.Store {
	if redisURL == "" {
		logger.Info("cache: REDIS_URL not set, using in-memory store")
		return memory.New()
	}
	deadline := time.Now().Add(maxWait)
	backoff := 2 * time.Second
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := redisstore.New(ctx, redisURL)
		cancel()
		if err == nil {
			logger.Info("cache: connected to redis")
			return client
		}
		if time.Now().After(deadline) {
			logger.Errorf("cache: redis unavailable after %v, falling back to in-memory store: %v", maxWait, err)
			return memory.New()
		}
		logger.Errorf("cache: redis connect failed, retry in %v: %v", backoff, err)
		time.Sleep(backoff)
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

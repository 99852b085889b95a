package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proconnect/internal/cache"
)

type Client struct {
	cli *redis.Client
}

func New(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{cli: cli}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// Get returns the cached value, or "" when the key is absent or expired.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cli.Get(ctx, "cache:"+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Client) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.cli.Set(ctx, "cache:"+key, val, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.cli.Del(ctx, "cache:"+key).Err()
}

// CheckLoginRateLimit counts attempts under login_limit:{email}; the first
// attempt in a window starts its expiry.
func (c *Client) CheckLoginRateLimit(ctx context.Context, email string) (bool, error) {
	key := "login_limit:" + email
	n, err := c.cli.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		c.cli.Expire(ctx, key, cache.LoginRateLimitWindow)
	}
	return n <= int64(cache.LoginRateLimitMax), nil
}

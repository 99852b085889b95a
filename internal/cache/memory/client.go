package memory

import (
	"context"
	"sync"
	"time"

	"github.com/proconnect/internal/cache"
)

type item struct {
	val string
	exp time.Time
}

type Client struct {
	mu    sync.RWMutex
	items map[string]item
	limit map[string][]time.Time
}

func New() *Client {
	return &Client{
		items: make(map[string]item),
		limit: make(map[string][]time.Time),
	}
}

func (c *Client) Close() error { return nil }

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	if !ok || time.Now().After(v.exp) {
		return "", nil
	}
	return v.val, nil
}

func (c *Client) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{val: val, exp: time.Now().Add(ttl)}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Client) CheckLoginRateLimit(ctx context.Context, email string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	cut := now.Add(-cache.LoginRateLimitWindow)
	var kept []time.Time
	for _, t := range c.limit[email] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= cache.LoginRateLimitMax {
		c.limit[email] = kept
		return false, nil
	}
	c.limit[email] = append(kept, now)
	return true, nil
}

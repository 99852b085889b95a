package memory

import (
	"context"
	"testing"
	"time"

	"github.com/proconnect/internal/cache"
)

func TestGetSetExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()

	if got, _ := c.Get(ctx, "missing"); got != "" {
		t.Fatalf("Get(missing) = %q, want empty", got)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if got, _ := c.Get(ctx, "k"); got != "v" {
		t.Fatalf("Get(k) = %q, want v", got)
	}

	// Expired entries read as absent.
	if err := c.Set(ctx, "gone", "v", -time.Second); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if got, _ := c.Get(ctx, "gone"); got != "" {
		t.Fatalf("Get(expired) = %q, want empty", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if got, _ := c.Get(ctx, "k"); got != "" {
		t.Fatalf("Get after delete = %q, want empty", got)
	}
}

func TestLoginRateLimit(t *testing.T) {
	c := New()
	ctx := context.Background()

	for i := 0; i < cache.LoginRateLimitMax; i++ {
		allowed, err := c.CheckLoginRateLimit(ctx, "a@b.c")
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}
	if allowed, _ := c.CheckLoginRateLimit(ctx, "a@b.c"); allowed {
		t.Fatal("attempt over the limit allowed, want denied")
	}
	// A different email has its own window.
	if allowed, _ := c.CheckLoginRateLimit(ctx, "x@y.z"); !allowed {
		t.Fatal("unrelated email denied")
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"
)

const (
	rateLimitWindow  = time.Minute
	rateLimitMaxIP   = 300
	rateLimitMaxUser = 150
)

type rateLimiter struct {
	mu        sync.Mutex
	times     map[string][]time.Time
	max       int
	window    time.Duration
	lastSweep time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		times:     make(map[string][]time.Time),
		max:       max,
		window:    window,
		lastSweep: time.Now(),
	}
}

func prune(slice []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for _, t := range slice {
		if t.After(cutoff) {
			slice[i] = t
			i++
		}
	}
	return slice[:i]
}

func (r *rateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-r.window)
	r.sweep(now, cutoff)
	slice := prune(r.times[key], cutoff)
	if len(slice) >= r.max {
		r.times[key] = slice
		return false
	}
	r.times[key] = append(slice, now)
	return true
}

// sweep drops keys whose entries have all aged out, at most once per
// window, so the map does not grow with every distinct IP and user the
// process ever saw.
func (r *rateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now
	for key, slice := range r.times {
		if len(prune(slice, cutoff)) == 0 {
			delete(r.times, key)
		}
	}
}

var (
	rateByIP   = newRateLimiter(rateLimitMaxIP, rateLimitWindow)
	rateByUser = newRateLimiter(rateLimitMaxUser, rateLimitWindow)
)

// RateLimit caps requests per IP and per signed-in user (by profile slug).
// 429 on excess.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if x := r.Header.Get("X-Real-Ip"); x != "" {
			ip = x
		} else if x := r.Header.Get("X-Forwarded-For"); x != "" {
			ip = x
		}
		if !rateByIP.allow(ip) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		if s := GetSession(r.Context()); s.IsAuthenticated() {
			if !rateByUser.allow("u:" + s.User().Slug) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

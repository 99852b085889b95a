package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abc", "****"},
		{"abcd", "****"},
		{"abcdefgh", "abcd***"},
		{"  spaced-token  ", "spac***"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3, 50*time.Millisecond)
	for i := 0; i < 3; i++ {
		if !rl.allow("k") {
			t.Fatalf("request %d denied inside the limit", i)
		}
	}
	if rl.allow("k") {
		t.Fatal("request over the limit allowed")
	}
	if !rl.allow("other") {
		t.Fatal("unrelated key affected by the limit")
	}
	time.Sleep(60 * time.Millisecond)
	if !rl.allow("k") {
		t.Fatal("request denied after the window expired")
	}
}

func TestRateLimiterSweepEvictsIdleKeys(t *testing.T) {
	rl := newRateLimiter(3, 20*time.Millisecond)
	rl.allow("a")
	rl.allow("b")
	time.Sleep(30 * time.Millisecond)

	// The next call is past the window, so the sweep runs and reclaims
	// the keys that were never seen again.
	rl.allow("c")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.times["a"]; ok {
		t.Error("key a still tracked after its entries aged out")
	}
	if _, ok := rl.times["b"]; ok {
		t.Error("key b still tracked after its entries aged out")
	}
	if len(rl.times["c"]) != 1 {
		t.Errorf("key c entries = %d, want 1", len(rl.times["c"]))
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("no request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("header id %q != context id %q", got, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-7")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "upstream-7" {
		t.Errorf("id = %q, want the upstream value", seen)
	}
}

func TestRequireAuthPreservesNext(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/42", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?next=%2Fchat%2F42" {
		t.Errorf("Location = %q", got)
	}
}

// Package session reads and writes the two client-side cookies that carry
// identity: the opaque auth token and a JSON blob of display metadata. The
// backend is the authority on both; this package only decides which view to
// render (authenticated vs anonymous, owner vs visitor).
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/proconnect/internal/model"
)

const (
	tokenCookie = "pc_token"
	userCookie  = "pc_user"

	// Cookie lifetime; actual session validity is enforced by the backend.
	cookieTTL = 30 * 24 * time.Hour
)

// Secure controls the Secure flag on both cookies; set once at startup.
var Secure bool

// Session is the per-request view of the two cookies. Read it at the start
// of each request; never cache it across requests.
type Session struct {
	token string
	user  model.UserInfo
	auth  bool
}

// FromRequest reads both cookies. A missing or unreadable pair yields an
// anonymous session. A token that parses as a JWT with a past exp claim is
// also treated as anonymous so pages do not render "signed in" with a token
// the backend will reject.
func FromRequest(r *http.Request) *Session {
	s := &Session{}
	tc, err := r.Cookie(tokenCookie)
	if err != nil || tc.Value == "" {
		return s
	}
	uc, err := r.Cookie(userCookie)
	if err != nil || uc.Value == "" {
		return s
	}
	raw, err := base64.RawURLEncoding.DecodeString(uc.Value)
	if err != nil {
		return s
	}
	var info model.UserInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.Name == "" {
		return s
	}
	if tokenExpired(tc.Value) {
		return s
	}
	s.token = tc.Value
	s.user = info
	s.auth = true
	return s
}

// IsAuthenticated reports whether both cookies were present and usable.
func (s *Session) IsAuthenticated() bool { return s.auth }

// User returns the signed-in identity; zero value when anonymous.
func (s *Session) User() model.UserInfo { return s.user }

// Token returns the opaque auth token; empty when anonymous.
func (s *Session) Token() string { return s.token }

// IsOwner reports whether the session belongs to the profile at slug.
func (s *Session) IsOwner(slug string) bool {
	return s.auth && s.user.Slug == slug
}

// Write sets both cookies on login. The user-info cookie is readable by
// page scripts, so it carries display metadata only.
func Write(w http.ResponseWriter, token string, user model.UserInfo) {
	expires := time.Now().Add(cookieTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   Secure,
		SameSite: http.SameSiteLaxMode,
	})
	raw, _ := json.Marshal(user)
	http.SetCookie(w, &http.Cookie{
		Name:     userCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  expires,
		Secure:   Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes both cookies together, on logout and on a backend 401.
func Clear(w http.ResponseWriter) {
	for _, name := range []string{tokenCookie, userCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Secure:   Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// tokenExpired peeks at the token without verifying its signature. Opaque
// (non-JWT) tokens are never considered expired here.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

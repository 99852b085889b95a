package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/session"
)

// LoadSession reads the identity cookies once per request and stores the
// result in the context. Every page decides authenticated-vs-anonymous and
// owner-vs-visitor from this session.
func LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromRequest(r)
		if s.IsAuthenticated() {
			logger.Debugf("session user=%s token=%s", s.User().Slug, MaskToken(s.Token()))
		}
		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous visitors to the login page, preserving
// the requested path for the post-login redirect.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

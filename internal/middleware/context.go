package middleware

import (
	"context"

	"github.com/proconnect/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// GetSession returns the session placed in the context by LoadSession. An
// anonymous session is returned when the middleware did not run.
func GetSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return &session.Session{}
}

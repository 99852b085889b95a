package middleware

import (
	"net/http"
	"time"

	"github.com/proconnect/internal/logger"
)

// RequestLog logs each HTTP request: id, method, path and duration
// (asynchronously, never blocking the response).
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		line := "http " + r.Method + " " + r.URL.Path
		if id := GetRequestID(r.Context()); id != "" {
			line += " id=" + id
		}
		defer logger.DeferLogDuration(line, start)()
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/proconnect/internal/logger"
)

// responseWriter wraps http.ResponseWriter to detect whether a response was
// already written. Implements http.Hijacker for WebSocket upgrades.
type responseWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.status = code
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

// Hijack delegates to the underlying ResponseWriter when it supports it
// (needed for the chat WebSocket bridge).
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Recover logs a handler panic and, when nothing was written yet, returns
// JSON 500 under /api/ and a plain error page elsewhere. No failure is
// allowed to crash the process.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				logger.Errorf("panic recovered %s %s: %v", r.Method, r.URL.Path, err)
				if wrap.wrote {
					return
				}
				if strings.HasPrefix(r.URL.Path, "/api/") {
					wrap.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
					wrap.ResponseWriter.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(wrap.ResponseWriter).Encode(map[string]string{"error": "internal server error"})
					return
				}
				wrap.ResponseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
				wrap.ResponseWriter.WriteHeader(http.StatusInternalServerError)
				wrap.ResponseWriter.Write([]byte("<h1>Something went wrong</h1><p>Please try again.</p>"))
			}
		}()
		next.ServeHTTP(wrap, r)
	})
}

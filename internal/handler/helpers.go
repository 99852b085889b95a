// Package handler contains the HTTP handlers for every page and form of
// the web client, plus the WebSocket bridge for chat. Handlers translate
// between browser requests and the backend API modules; they hold no
// business logic of their own.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/proconnect/internal/api"
	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/cache"
	"github.com/proconnect/internal/chat"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/session"
	"github.com/proconnect/internal/view"
)

const (
	toastCookie = "pc_toast"
	csrfCookie  = "pc_csrf"
)

// WSConfig tunes the browser-facing WebSocket bridge. Zero values fall
// back to the defaults in ws.go.
type WSConfig struct {
	WriteTimeout time.Duration
	MaxFrameSize int64
	SendBuffer   int
}

type Handlers struct {
	view          *view.Renderer
	users         *api.User
	companies     *api.Company
	jobs          *api.Job
	posts         *api.Post
	notifications *api.Notification
	skills        *api.Skill
	chats         *api.Chat

	cache    cache.Store
	cacheTTL time.Duration
	dialer   chat.Dialer
	ws       WSConfig
}

func New(v *view.Renderer, be *backend.Client, store cache.Store, cacheTTL time.Duration, dialer chat.Dialer, ws WSConfig) *Handlers {
	if ws.WriteTimeout <= 0 {
		ws.WriteTimeout = defaultWSWriteWait
	}
	if ws.MaxFrameSize <= 0 {
		ws.MaxFrameSize = defaultWSFrameSize
	}
	if ws.SendBuffer <= 0 {
		ws.SendBuffer = defaultWSSendBuf
	}
	return &Handlers{
		view:          v,
		users:         api.NewUser(be),
		companies:     api.NewCompany(be),
		jobs:          api.NewJob(be),
		posts:         api.NewPost(be),
		notifications: api.NewNotification(be),
		skills:        api.NewSkill(be),
		chats:         api.NewChat(be),
		cache:         store,
		cacheTTL:      cacheTTL,
		dialer:        dialer,
		ws:            ws,
	}
}

// page assembles the common template data: session identity, the one-shot
// toast (consumed here) and the CSRF token for forms.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request, title string, data any) view.Page {
	s := middleware.GetSession(r.Context())
	return view.Page{
		Title:         title,
		Authenticated: s.IsAuthenticated(),
		User:          s.User(),
		Toast:         popToast(w, r),
		CSRF:          csrfToken(w, r),
		Data:          data,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	h.view.Render(w, status, name, h.page(w, r, title, data))
}

// setToast stores a one-shot message shown on the next page load.
func setToast(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popToast reads and clears the toast cookie.
func popToast(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(toastCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// csrfToken returns the double-submit token, issuing the cookie on first
// use. Forms echo the value in a hidden field; checkCSRF compares the two.
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// checkCSRF validates the hidden form field against the cookie. On a
// mismatch it redirects back with a toast and returns false; the caller
// returns immediately.
func (h *Handlers) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	c, err := r.Cookie(csrfCookie)
	if err != nil || c.Value == "" || r.FormValue("csrf") != c.Value {
		setToast(w, "Your session expired, please try again")
		http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
		return false
	}
	return true
}

// fail maps a backend error to the user-visible outcome: 401 clears the
// session cookies and lands on the login page, a backend rejection becomes
// a toast, anything else a generic toast. Always redirects.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, redirect string) {
	if errors.Is(err, backend.ErrUnauthorized) {
		session.Clear(w)
		http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		setToast(w, be.Message)
	} else {
		logger.Errorf("handler %s %s: %v", r.Method, r.URL.Path, err)
		setToast(w, "Something went wrong, please try again")
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// userMessage extracts the backend's human-readable rejection, falling
// back to a generic line for transport-level failures.
func userMessage(err error, fallback string) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	logger.Errorf("backend: %v", err)
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("write json: %v", err)
	}
}

// safeNext validates a post-login redirect target: same-site paths only.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func safeReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != r.Host {
		return "/"
	}
	return u.RequestURI()
}

// cachedJSON serves anonymous-safe GET responses through the cache: on a
// miss, fetch runs and the result is stored for the configured TTL. Cache
// errors degrade to a plain fetch.
func cachedJSON[T any](h *Handlers, r *http.Request, key string, out *T, fetch func() (T, error)) error {
	ctx := r.Context()
	if raw, err := h.cache.Get(ctx, key); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), out); err == nil {
			return nil
		}
	}
	v, err := fetch()
	if err != nil {
		return err
	}
	*out = v
	if raw, err := json.Marshal(v); err == nil {
		if err := h.cache.Set(ctx, key, string(raw), h.cacheTTL); err != nil {
			logger.Errorf("cache set %s: %v", key, err)
		}
	}
	return nil
}

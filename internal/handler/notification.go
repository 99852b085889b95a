package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
)

type notificationsData struct {
	Items []model.Notification
}

func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r.Context())
	items, err := h.notifications.List(r.Context(), s.Token())
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "notifications", "Notifications", notificationsData{Items: items})
}

func (h *Handlers) NotificationRead(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.notifications.MarkRead(r.Context(), s.Token(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "/notifications")
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

func (h *Handlers) NotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.notifications.MarkAllRead(r.Context(), s.Token()); err != nil {
		h.fail(w, r, err, "/notifications")
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

// UnreadCountJSON backs the navbar badge. It degrades to zero on any
// failure; a badge is not worth an error page.
func (h *Handlers) UnreadCountJSON(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r.Context())
	if !s.IsAuthenticated() {
		writeJSON(w, http.StatusOK, map[string]int{"count": 0})
		return
	}
	count, err := h.notifications.UnreadCount(r.Context(), s.Token())
	if err != nil {
		logger.Errorf("unread count: %v", err)
		count = 0
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

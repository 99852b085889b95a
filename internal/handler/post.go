package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
)

type feedData struct {
	Posts []model.Post
}

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r.Context())
	posts, err := h.posts.Feed(r.Context(), s.Token())
	if err != nil {
		h.fail(w, r, err, "/jobs")
		return
	}
	h.render(w, r, http.StatusOK, "feed", "Home", feedData{Posts: posts})
}

func (h *Handlers) PostCreate(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		setToast(w, "Post cannot be empty")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.posts.Create(r.Context(), s.Token(), body); err != nil {
		h.fail(w, r, err, "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) PostLike(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.posts.Like(r.Context(), s.Token(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, safeReferer(r))
		return
	}
	http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
}

func (h *Handlers) PostComment(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		setToast(w, "Comment cannot be empty")
		http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.posts.Comment(r.Context(), s.Token(), chi.URLParam(r, "id"), body); err != nil {
		h.fail(w, r, err, safeReferer(r))
		return
	}
	http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
}

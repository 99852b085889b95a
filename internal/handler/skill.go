package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/middleware"
)

func (h *Handlers) SkillAdd(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	back := "/in/" + s.User().Slug
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		setToast(w, "Skill name is required")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := h.skills.Add(r.Context(), s.Token(), name); err != nil {
		h.fail(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handlers) SkillRemove(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	back := "/in/" + s.User().Slug
	if err := h.skills.Remove(r.Context(), s.Token(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// SkillEndorse runs from another person's profile page, so the redirect
// goes back to where the form was.
func (h *Handlers) SkillEndorse(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	if err := h.skills.Endorse(r.Context(), s.Token(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, safeReferer(r))
		return
	}
	setToast(w, "Endorsed")
	http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
	"github.com/proconnect/internal/session"
)

type profileData struct {
	Profile model.Profile
	Owner   bool
	Errors  map[string]string
}

// ProfileView renders a person's profile. For anonymous visitors the
// backend response is served through the cache; signed-in views always hit
// the backend so the owner sees fresh data.
func (h *Handlers) ProfileView(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s := middleware.GetSession(r.Context())

	var profile model.Profile
	var err error
	if s.IsAuthenticated() {
		profile, err = h.users.Profile(r.Context(), s.Token(), slug)
	} else {
		err = cachedJSON(h, r, "profile:"+slug, &profile, func() (model.Profile, error) {
			return h.users.Profile(r.Context(), "", slug)
		})
	}
	if err != nil {
		h.fail(w, r, err, "/jobs")
		return
	}
	h.render(w, r, http.StatusOK, "profile", profile.Name, profileData{
		Profile: profile,
		Owner:   s.IsOwner(slug),
	})
}

func (h *Handlers) ProfileEditForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s := middleware.GetSession(r.Context())
	if !s.IsOwner(slug) {
		setToast(w, "You can only edit your own profile")
		http.Redirect(w, r, "/in/"+slug, http.StatusSeeOther)
		return
	}
	profile, err := h.users.Profile(r.Context(), s.Token(), slug)
	if err != nil {
		h.fail(w, r, err, "/in/"+slug)
		return
	}
	h.render(w, r, http.StatusOK, "profile_edit", "Edit profile", profileData{Profile: profile})
}

func (h *Handlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	slug := chi.URLParam(r, "slug")
	s := middleware.GetSession(r.Context())
	if !s.IsOwner(slug) {
		setToast(w, "You can only edit your own profile")
		http.Redirect(w, r, "/in/"+slug, http.StatusSeeOther)
		return
	}

	upd := model.ProfileUpdate{
		Name:           strings.TrimSpace(r.FormValue("name")),
		CurrentTitle:   strings.TrimSpace(r.FormValue("current_title")),
		Location:       strings.TrimSpace(r.FormValue("location")),
		About:          r.FormValue("about"),
		ProfilePicture: strings.TrimSpace(r.FormValue("profile_picture")),
	}
	if upd.Name == "" {
		h.render(w, r, http.StatusUnprocessableEntity, "profile_edit", "Edit profile", profileData{
			Profile: model.Profile{
				Slug:           slug,
				Name:           upd.Name,
				CurrentTitle:   upd.CurrentTitle,
				Location:       upd.Location,
				About:          upd.About,
				ProfilePicture: upd.ProfilePicture,
			},
			Errors: map[string]string{"name": "Name is required"},
		})
		return
	}

	if err := h.users.UpdateProfile(r.Context(), s.Token(), slug, upd); err != nil {
		h.fail(w, r, err, "/in/"+slug+"/edit")
		return
	}

	// The navbar identity comes from the user-info cookie; refresh it so
	// the new name and picture show up immediately.
	info := s.User()
	info.Name = upd.Name
	info.CurrentTitle = upd.CurrentTitle
	if upd.ProfilePicture != "" {
		info.ProfilePicture = upd.ProfilePicture
	}
	session.Write(w, s.Token(), info)

	setToast(w, "Profile updated")
	http.Redirect(w, r, "/in/"+slug, http.StatusSeeOther)
}

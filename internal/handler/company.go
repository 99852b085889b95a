package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
)

type companyData struct {
	Company model.Company
	Jobs    []model.Job
	Owner   bool
	Errors  map[string]string
}

// CompanyView renders a company page with its open positions. Anonymous
// views are cache-fronted like public profiles.
func (h *Handlers) CompanyView(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s := middleware.GetSession(r.Context())

	var co model.Company
	var err error
	if s.IsAuthenticated() {
		co, err = h.companies.Profile(r.Context(), s.Token(), slug)
	} else {
		err = cachedJSON(h, r, "company:"+slug, &co, func() (model.Company, error) {
			return h.companies.Profile(r.Context(), "", slug)
		})
	}
	if err != nil {
		h.fail(w, r, err, "/jobs")
		return
	}

	jobs, err := h.companies.Jobs(r.Context(), s.Token(), slug)
	if err != nil {
		// The page is still useful without the jobs list.
		logger.Errorf("company jobs %s: %v", slug, err)
	}
	h.render(w, r, http.StatusOK, "company", co.Name, companyData{
		Company: co,
		Jobs:    jobs,
		Owner:   s.IsOwner(slug) && s.User().Role == model.RoleOrganization,
	})
}

func (h *Handlers) companyOwner(w http.ResponseWriter, r *http.Request, slug string) bool {
	s := middleware.GetSession(r.Context())
	if !s.IsOwner(slug) || s.User().Role != model.RoleOrganization {
		setToast(w, "You can only edit your own company page")
		http.Redirect(w, r, "/company/"+slug, http.StatusSeeOther)
		return false
	}
	return true
}

func (h *Handlers) CompanyEditForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !h.companyOwner(w, r, slug) {
		return
	}
	s := middleware.GetSession(r.Context())
	co, err := h.companies.Profile(r.Context(), s.Token(), slug)
	if err != nil {
		h.fail(w, r, err, "/company/"+slug)
		return
	}
	h.render(w, r, http.StatusOK, "company_edit", "Edit company page", companyData{Company: co})
}

func (h *Handlers) CompanyUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	slug := chi.URLParam(r, "slug")
	if !h.companyOwner(w, r, slug) {
		return
	}
	s := middleware.GetSession(r.Context())

	upd := model.CompanyUpdate{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Tagline:  strings.TrimSpace(r.FormValue("tagline")),
		About:    r.FormValue("about"),
		Website:  strings.TrimSpace(r.FormValue("website")),
		Industry: strings.TrimSpace(r.FormValue("industry")),
		Size:     strings.TrimSpace(r.FormValue("size")),
		Location: strings.TrimSpace(r.FormValue("location")),
	}
	if upd.Name == "" {
		h.render(w, r, http.StatusUnprocessableEntity, "company_edit", "Edit company page", companyData{
			Company: model.Company{
				Slug:     slug,
				Name:     upd.Name,
				Tagline:  upd.Tagline,
				About:    upd.About,
				Website:  upd.Website,
				Industry: upd.Industry,
				Size:     upd.Size,
				Location: upd.Location,
			},
			Errors: map[string]string{"name": "Name is required"},
		})
		return
	}

	if err := h.companies.Update(r.Context(), s.Token(), slug, upd); err != nil {
		h.fail(w, r, err, "/company/"+slug+"/edit")
		return
	}
	setToast(w, "Company page updated")
	http.Redirect(w, r, "/company/"+slug, http.StatusSeeOther)
}

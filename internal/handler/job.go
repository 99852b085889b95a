package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
)

// Accepted values for the job filter dropdowns and the posting form. The
// backend validates too; these just keep the forms honest.
var (
	jobTypes      = []string{"full-time", "part-time", "contract", "internship"}
	jobCategories = []string{"engineering", "design", "product", "marketing", "sales", "operations", "finance", "people"}
)

type jobsData struct {
	Filter     model.JobFilter
	Categories []string
	Types      []string
	Jobs       []model.Job
}

type jobDetailData struct {
	Job model.Job
}

type applicationsData struct {
	Items []model.JobApplication
}

type jobNewData struct {
	Posting    model.JobPosting
	Categories []string
	Types      []string
	Errors     map[string]string
}

// JobList runs the search with the query-string filter. Anonymous searches
// are served through the cache keyed on the filter set.
func (h *Handlers) JobList(w http.ResponseWriter, r *http.Request) {
	filter := model.JobFilterFromQuery(r.URL.Query())
	s := middleware.GetSession(r.Context())

	var jobs []model.Job
	var err error
	if s.IsAuthenticated() {
		jobs, err = h.jobs.Search(r.Context(), s.Token(), filter)
	} else {
		err = cachedJSON(h, r, filter.CacheKey(), &jobs, func() ([]model.Job, error) {
			return h.jobs.Search(r.Context(), "", filter)
		})
	}

	data := jobsData{Filter: filter, Categories: jobCategories, Types: jobTypes, Jobs: jobs}
	if err != nil {
		// Render the page with an empty result set rather than bouncing
		// the user elsewhere; the search form stays usable.
		page := h.page(w, r, "Jobs", data)
		page.Toast = userMessage(err, "Job search is unavailable right now")
		h.view.Render(w, http.StatusOK, "jobs", page)
		return
	}
	h.render(w, r, http.StatusOK, "jobs", "Jobs", data)
}

func (h *Handlers) JobDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := middleware.GetSession(r.Context())
	job, err := h.jobs.Detail(r.Context(), s.Token(), id)
	if err != nil {
		h.fail(w, r, err, "/jobs")
		return
	}
	h.render(w, r, http.StatusOK, "job_detail", job.Title, jobDetailData{Job: job})
}

// Applications lists the signed-in user's job applications with their
// review status.
func (h *Handlers) Applications(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r.Context())
	apps, err := h.jobs.Applications(r.Context(), s.Token())
	if err != nil {
		h.fail(w, r, err, "/jobs")
		return
	}
	h.render(w, r, http.StatusOK, "applications", "My applications", applicationsData{Items: apps})
}

func (h *Handlers) requireOrganization(w http.ResponseWriter, r *http.Request) bool {
	if middleware.GetSession(r.Context()).User().Role != model.RoleOrganization {
		setToast(w, "Only company accounts can post jobs")
		http.Redirect(w, r, "/jobs", http.StatusSeeOther)
		return false
	}
	return true
}

func (h *Handlers) JobNewForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireOrganization(w, r) {
		return
	}
	h.render(w, r, http.StatusOK, "job_new", "Post a job", jobNewData{
		Posting:    model.JobPosting{Type: jobTypes[0], Category: jobCategories[0]},
		Categories: jobCategories,
		Types:      jobTypes,
	})
}

func (h *Handlers) JobCreate(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	if !h.requireOrganization(w, r) {
		return
	}
	posting := model.JobPosting{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Type:        r.FormValue("type"),
		Category:    r.FormValue("category"),
		SalaryRange: strings.TrimSpace(r.FormValue("salary_range")),
		Description: r.FormValue("description"),
	}

	errs := map[string]string{}
	if posting.Title == "" {
		errs["title"] = "Title is required"
	}
	if posting.Location == "" {
		errs["location"] = "Location is required"
	}
	if strings.TrimSpace(posting.Description) == "" {
		errs["description"] = "Description is required"
	}
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "job_new", "Post a job", jobNewData{
			Posting:    posting,
			Categories: jobCategories,
			Types:      jobTypes,
			Errors:     errs,
		})
		return
	}

	s := middleware.GetSession(r.Context())
	job, err := h.jobs.Create(r.Context(), s.Token(), posting)
	if err != nil {
		h.fail(w, r, err, "/jobs/new")
		return
	}
	setToast(w, "Job published")
	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

func (h *Handlers) JobApply(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	s := middleware.GetSession(r.Context())
	note := strings.TrimSpace(r.FormValue("note"))
	if err := h.jobs.Apply(r.Context(), s.Token(), id, note); err != nil {
		h.fail(w, r, err, "/jobs/"+id)
		return
	}
	setToast(w, "Application sent")
	http.Redirect(w, r, "/jobs/"+id, http.StatusSeeOther)
}

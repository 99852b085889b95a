package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	CompanySlug string    `json:"company_slug"`
	CompanyLogo string    `json:"company_logo"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`     // full-time, part-time, contract, internship
	Category    string    `json:"category"` // engineering, design, marketing, ...
	SalaryRange string    `json:"salary_range,omitempty"`
	Description string    `json:"description"`
	PostedAt    time.Time `json:"posted_at"`
}

// JobFilter is the job search filter set. Each filter is an explicit field
// rather than an open map so the accepted schema is visible in one place.
type JobFilter struct {
	Keyword  string
	Location string
	Category string
	Type     string
	Page     int
}

// JobFilterFromQuery builds the filter from list-page query parameters.
func JobFilterFromQuery(q url.Values) JobFilter {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return JobFilter{
		Keyword:  strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		Category: strings.TrimSpace(q.Get("category")),
		Type:     strings.TrimSpace(q.Get("type")),
		Page:     page,
	}
}

// Query renders the filter back into backend query parameters.
func (f JobFilter) Query() url.Values {
	q := url.Values{}
	if f.Keyword != "" {
		q.Set("q", f.Keyword)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// CacheKey is a stable key for caching a search result page.
func (f JobFilter) CacheKey() string {
	return "jobs:" + f.Query().Encode()
}

// JobPosting is the job post form field set.
type JobPosting struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	SalaryRange string `json:"salary_range,omitempty"`
	Description string `json:"description"`
}

type JobApplication struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

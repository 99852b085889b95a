// Package view renders the HTML pages from templates embedded in the
// binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title         string
	Authenticated bool
	User          model.UserInfo
	Toast         string
	CSRF          string
	Data          any
}

// IsOrganization reports whether the signed-in account is a company page.
func (p Page) IsOrganization() bool {
	return p.Authenticated && p.User.Role == model.RoleOrganization
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	t := template.New("").Funcs(template.FuncMap{
		"markdown": Markdown,
		"timeago":  TimeAgo,
	})
	t, err := t.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the named page template. Render errors are logged, not
// propagated; by then part of the response may already be out.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tmpl.ExecuteTemplate(w, name, page); err != nil {
		logger.Errorf("render %s: %v", name, err)
	}
}

// TimeAgo formats a timestamp the way feeds do ("3h", "2d", "Jan 2").
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 14*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

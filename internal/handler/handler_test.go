package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/cache/memory"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
	"github.com/proconnect/internal/session"
	"github.com/proconnect/internal/view"
)

// fakeBackend answers the envelope protocol for the routes a test needs.
type fakeBackend struct {
	mux   *http.ServeMux
	calls atomic.Int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{mux: http.NewServeMux()}
}

func (f *fakeBackend) handle(pattern string, data string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":` + data + `}`))
	})
}

func newTestRouter(t *testing.T, fb *fakeBackend) *chi.Mux {
	t.Helper()
	srv := httptest.NewServer(fb.mux)
	t.Cleanup(srv.Close)

	renderer, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	store := memory.New()
	t.Cleanup(func() { store.Close() })

	h := New(renderer, backend.New(srv.URL, 5*time.Second), store, time.Minute, nil, WSConfig{})

	r := chi.NewRouter()
	r.Use(middleware.LoadSession)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/jobs", h.JobList)
	r.Get("/api/notifications/unread", h.UnreadCountJSON)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/chat", h.ChatRooms)
		r.Get("/applications", h.Applications)
		r.Post("/logout", h.Logout)
	})
	return r
}

func writeTestSession(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	session.Write(rec, "tok-test", model.UserInfo{Name: "Ada", Slug: "ada", Role: model.RolePerson})
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewAppliesWSConfig(t *testing.T) {
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	store := memory.New()
	defer store.Close()

	h := New(renderer, backend.New("http://backend", time.Second), store, time.Minute, nil, WSConfig{})
	if h.ws.WriteTimeout != defaultWSWriteWait || h.ws.MaxFrameSize != defaultWSFrameSize || h.ws.SendBuffer != defaultWSSendBuf {
		t.Errorf("zero config = %+v, want bridge defaults", h.ws)
	}

	tuned := WSConfig{WriteTimeout: 2 * time.Second, MaxFrameSize: 2048, SendBuffer: 16}
	h = New(renderer, backend.New("http://backend", time.Second), store, time.Minute, nil, tuned)
	if h.ws != tuned {
		t.Errorf("ws config = %+v, want %+v", h.ws, tuned)
	}
}

func TestLoginSetsSessionCookiesAndRedirects(t *testing.T) {
	fb := newFakeBackend()
	fb.handle("/auth/login", `{"token":"tok-1","user":{"name":"Ada","slug":"ada","role":"person"}}`)
	r := newTestRouter(t, fb)

	// First request issues the CSRF cookie the form must echo back.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	csrf := cookieByName(rec.Result().Cookies(), "pc_csrf")
	if csrf == nil {
		t.Fatal("GET /login did not set the csrf cookie")
	}

	form := url.Values{
		"csrf":     {csrf.Value},
		"email":    {"ada@example.com"},
		"password": {"hunter2hunter2"},
		"next":     {"/jobs"},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrf)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/jobs" {
		t.Errorf("Location = %q, want /jobs", got)
	}
	cookies := rec.Result().Cookies()
	if c := cookieByName(cookies, "pc_token"); c == nil || c.Value != "tok-1" {
		t.Errorf("pc_token cookie = %+v, want tok-1", c)
	}
	if cookieByName(cookies, "pc_user") == nil {
		t.Error("pc_user cookie not set")
	}
}

func TestLoginRejectsInvalidEmailWithoutBackendCall(t *testing.T) {
	fb := newFakeBackend()
	r := newTestRouter(t, fb)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	csrf := cookieByName(rec.Result().Cookies(), "pc_csrf")

	form := url.Values{
		"csrf":     {csrf.Value},
		"email":    {"not-an-email"},
		"password": {"hunter2"},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrf)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if n := fb.calls.Load(); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestPostWithoutCSRFTokenBouncesBack(t *testing.T) {
	fb := newFakeBackend()
	r := newTestRouter(t, fb)

	form := url.Values{"csrf": {"forged"}}
	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Authenticated but with no csrf cookie to match the field.
	sessRec := httptest.NewRecorder()
	writeTestSession(t, sessRec)
	for _, c := range sessRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if cookieByName(rec.Result().Cookies(), "pc_toast") == nil {
		t.Error("expected a toast cookie explaining the rejection")
	}
	if n := fb.calls.Load(); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestRequireAuthRedirectsAnonymousToLogin(t *testing.T) {
	r := newTestRouter(t, newFakeBackend())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?next=") {
		t.Errorf("Location = %q, want /login?next=...", loc)
	}
}

func TestUnreadCountIsZeroForAnonymous(t *testing.T) {
	r := newTestRouter(t, newFakeBackend())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/unread", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["count"] != 0 {
		t.Errorf("count = %d, want 0", body["count"])
	}
}

func TestApplicationsPageListsBackendResults(t *testing.T) {
	fb := newFakeBackend()
	fb.handle("/jobs/applications", `[{"id":"a1","job_id":"j1","job_title":"Go Engineer","company":"Acme","status":"in review","applied_at":"2026-08-20T10:00:00Z"}]`)
	r := newTestRouter(t, fb)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	sessRec := httptest.NewRecorder()
	writeTestSession(t, sessRec)
	for _, c := range sessRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Go Engineer", "Acme", "in review", "/jobs/j1"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestAnonymousJobSearchIsCached(t *testing.T) {
	fb := newFakeBackend()
	fb.handle("/jobs", `[{"id":"j1","title":"Go Engineer","company_name":"Acme","company_slug":"acme"}]`)
	r := newTestRouter(t, fb)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs?q=go", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Go Engineer") {
			t.Fatalf("request %d: job title missing from page", i)
		}
	}
	if n := fb.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want 1 (second hit served from cache)", n)
	}
}

package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
	"github.com/proconnect/internal/session"
)

type loginData struct {
	Next   string
	Email  string
	Errors map[string]string
}

type registerData struct {
	Name   string
	Email  string
	Role   string
	Errors map[string]string
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Sign in", loginData{
		Next: r.URL.Query().Get("next"),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	data := loginData{Next: next, Email: email, Errors: map[string]string{}}
	if _, err := mail.ParseAddress(email); err != nil {
		data.Errors["email"] = "Enter a valid email address"
	}
	if password == "" {
		data.Errors["password"] = "Password is required"
	}
	if len(data.Errors) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", data)
		return
	}

	allowed, err := h.cache.CheckLoginRateLimit(r.Context(), email)
	if err != nil {
		logger.Errorf("login rate limit: %v", err)
	} else if !allowed {
		data.Errors["email"] = "Too many attempts, try again later"
		h.render(w, r, http.StatusTooManyRequests, "login", "Sign in", data)
		return
	}

	res, err := h.users.Login(r.Context(), model.Credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			data.Errors["password"] = "Incorrect email or password"
		} else {
			data.Errors["password"] = userMessage(err, "Sign in failed, please try again")
		}
		h.render(w, r, http.StatusUnauthorized, "login", "Sign in", data)
		return
	}
	session.Write(w, res.Token, res.User)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "register", "Join now", registerData{Role: "person"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role := r.FormValue("role")
	if role != string(model.RoleOrganization) {
		role = string(model.RolePerson)
	}

	data := registerData{Name: name, Email: email, Role: role, Errors: map[string]string{}}
	if name == "" {
		data.Errors["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		data.Errors["email"] = "Enter a valid email address"
	}
	if len(password) < 8 {
		data.Errors["password"] = "Password must be at least 8 characters"
	}
	if len(data.Errors) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Join now", data)
		return
	}

	allowed, err := h.cache.CheckLoginRateLimit(r.Context(), email)
	if err != nil {
		logger.Errorf("register rate limit: %v", err)
	} else if !allowed {
		data.Errors["email"] = "Too many attempts, try again later"
		h.render(w, r, http.StatusTooManyRequests, "register", "Join now", data)
		return
	}

	res, err := h.users.Register(r.Context(), model.Registration{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     model.Role(role),
	})
	if err != nil {
		data.Errors["email"] = userMessage(err, "Registration failed, please try again")
		h.render(w, r, http.StatusUnprocessableEntity, "register", "Join now", data)
		return
	}
	session.Write(w, res.Token, res.User)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout invalidates the token server-side and clears the cookies either
// way; a backend failure must not leave the browser signed in.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	s := middleware.GetSession(r.Context())
	if s.IsAuthenticated() {
		if err := h.users.Logout(r.Context(), s.Token()); err != nil {
			logger.Errorf("logout: %v", err)
		}
	}
	session.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetDecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-1")
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"name":"Ada","slug":"ada"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	var out struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Get(context.Background(), "/users/ada", "tok-1", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Name != "Ada" || out.Slug != "ada" {
		t.Errorf("decoded %+v, want Ada/ada", out)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	in := map[string]string{"message": "hi"}
	if err := c.Post(context.Background(), "/chat/send", "tok", in, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	err := c.Get(context.Background(), "/notifications", "stale", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestBackendRejectionCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"email already registered"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	err := c.Post(context.Background(), "/auth/register", "", map[string]string{}, nil)
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if be.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", be.Status)
	}
	if be.Error() != "email already registered" {
		t.Errorf("Error() = %q, want backend message", be.Error())
	}
}

func TestSuccessFalseWithOKStatusIsStillAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"room not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	err := c.Get(context.Background(), "/chat/messages/404", "tok", nil)
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if be.Message != "room not found" {
		t.Errorf("Message = %q, want %q", be.Message, "room not found")
	}
}

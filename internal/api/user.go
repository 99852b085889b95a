package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type User struct {
	client *backend.Client
}

func NewUser(c *backend.Client) *User {
	return &User{client: c}
}

func (a *User) Register(ctx context.Context, reg model.Registration) (model.AuthResult, error) {
	var res model.AuthResult
	if err := a.client.Post(ctx, "/auth/register", "", reg, &res); err != nil {
		return model.AuthResult{}, err
	}
	return res, nil
}

func (a *User) Login(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	var res model.AuthResult
	if err := a.client.Post(ctx, "/auth/login", "", creds, &res); err != nil {
		return model.AuthResult{}, err
	}
	return res, nil
}

// Logout invalidates the token server-side. Cookie removal happens locally
// regardless of the outcome.
func (a *User) Logout(ctx context.Context, token string) error {
	return a.client.Post(ctx, "/auth/logout", token, nil, nil)
}

func (a *User) Profile(ctx context.Context, token, slug string) (model.Profile, error) {
	var p model.Profile
	if err := a.client.Get(ctx, "/users/"+url.PathEscape(slug), token, &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (a *User) UpdateProfile(ctx context.Context, token, slug string, upd model.ProfileUpdate) error {
	return a.client.Put(ctx, "/users/"+url.PathEscape(slug), token, upd, nil)
}

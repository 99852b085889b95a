package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Skill struct {
	client *backend.Client
}

func NewSkill(c *backend.Client) *Skill {
	return &Skill{client: c}
}

func (a *Skill) List(ctx context.Context, token, userSlug string) ([]model.Skill, error) {
	var skills []model.Skill
	if err := a.client.Get(ctx, "/users/"+url.PathEscape(userSlug)+"/skills", token, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

type addSkillRequest struct {
	Name string `json:"name"`
}

func (a *Skill) Add(ctx context.Context, token, name string) error {
	return a.client.Post(ctx, "/skills", token, addSkillRequest{Name: name}, nil)
}

func (a *Skill) Remove(ctx context.Context, token, id string) error {
	return a.client.Delete(ctx, "/skills/"+url.PathEscape(id), token)
}

func (a *Skill) Endorse(ctx context.Context, token, id string) error {
	return a.client.Post(ctx, "/skills/"+url.PathEscape(id)+"/endorse", token, nil, nil)
}

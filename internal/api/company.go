package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Company struct {
	client *backend.Client
}

func NewCompany(c *backend.Client) *Company {
	return &Company{client: c}
}

func (a *Company) Profile(ctx context.Context, token, slug string) (model.Company, error) {
	var co model.Company
	if err := a.client.Get(ctx, "/companies/"+url.PathEscape(slug), token, &co); err != nil {
		return model.Company{}, err
	}
	return co, nil
}

func (a *Company) Update(ctx context.Context, token, slug string, upd model.CompanyUpdate) error {
	return a.client.Put(ctx, "/companies/"+url.PathEscape(slug), token, upd, nil)
}

// Jobs lists a company's open positions for its profile page.
func (a *Company) Jobs(ctx context.Context, token, slug string) ([]model.Job, error) {
	var jobs []model.Job
	if err := a.client.Get(ctx, "/companies/"+url.PathEscape(slug)+"/jobs", token, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

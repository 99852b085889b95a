package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Job struct {
	client *backend.Client
}

func NewJob(c *backend.Client) *Job {
	return &Job{client: c}
}

// Search runs a job search; ranking is backend-side, the filter record is
// passed through as query parameters.
func (a *Job) Search(ctx context.Context, token string, filter model.JobFilter) ([]model.Job, error) {
	path := "/jobs"
	if q := filter.Query().Encode(); q != "" {
		path += "?" + q
	}
	var jobs []model.Job
	if err := a.client.Get(ctx, path, token, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (a *Job) Detail(ctx context.Context, token, id string) (model.Job, error) {
	var job model.Job
	if err := a.client.Get(ctx, "/jobs/"+url.PathEscape(id), token, &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}

func (a *Job) Create(ctx context.Context, token string, posting model.JobPosting) (model.Job, error) {
	var job model.Job
	if err := a.client.Post(ctx, "/jobs", token, posting, &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}

type applyRequest struct {
	JobID string `json:"job_id"`
	Note  string `json:"note,omitempty"`
}

func (a *Job) Apply(ctx context.Context, token, jobID, note string) error {
	return a.client.Post(ctx, "/jobs/apply", token, applyRequest{JobID: jobID, Note: note}, nil)
}

// Applications lists the current user's applications.
func (a *Job) Applications(ctx context.Context, token string) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	if err := a.client.Get(ctx, "/jobs/applications", token, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

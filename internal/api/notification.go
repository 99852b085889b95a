package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Notification struct {
	client *backend.Client
}

func NewNotification(c *backend.Client) *Notification {
	return &Notification{client: c}
}

func (a *Notification) List(ctx context.Context, token string) ([]model.Notification, error) {
	var items []model.Notification
	if err := a.client.Get(ctx, "/notifications", token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type unreadResponse struct {
	Count int `json:"count"`
}

// UnreadCount backs the navbar badge; delivery itself is backend-side.
func (a *Notification) UnreadCount(ctx context.Context, token string) (int, error) {
	var resp unreadResponse
	if err := a.client.Get(ctx, "/notifications/unread", token, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (a *Notification) MarkRead(ctx context.Context, token, id string) error {
	return a.client.Post(ctx, "/notifications/"+url.PathEscape(id)+"/read", token, nil, nil)
}

func (a *Notification) MarkAllRead(ctx context.Context, token string) error {
	return a.client.Post(ctx, "/notifications/read-all", token, nil, nil)
}

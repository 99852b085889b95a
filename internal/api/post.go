package api

import (
	"context"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Post struct {
	client *backend.Client
}

func NewPost(c *backend.Client) *Post {
	return &Post{client: c}
}

func (a *Post) Feed(ctx context.Context, token string) ([]model.Post, error) {
	var posts []model.Post
	if err := a.client.Get(ctx, "/posts/feed", token, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type createPostRequest struct {
	Body string `json:"body"`
}

func (a *Post) Create(ctx context.Context, token, body string) error {
	return a.client.Post(ctx, "/posts", token, createPostRequest{Body: body}, nil)
}

func (a *Post) Like(ctx context.Context, token, postID string) error {
	return a.client.Post(ctx, "/posts/"+url.PathEscape(postID)+"/like", token, nil, nil)
}

type commentRequest struct {
	Body string `json:"body"`
}

func (a *Post) Comment(ctx context.Context, token, postID, body string) error {
	return a.client.Post(ctx, "/posts/"+url.PathEscape(postID)+"/comments", token, commentRequest{Body: body}, nil)
}

package model

import "time"

type Post struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"author_name"`
	AuthorSlug   string    `json:"author_slug"`
	AuthorTitle  string    `json:"author_title"`
	AuthorAvatar string    `json:"author_avatar"`
	Body         string    `json:"body"`
	Likes        int       `json:"likes"`
	Liked        bool      `json:"liked"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
}

type Comment struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"author_name"`
	AuthorSlug   string    `json:"author_slug"`
	AuthorAvatar string    `json:"author_avatar"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

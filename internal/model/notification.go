package model

import "time"

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // message, application, endorsement, ...
	Text      string    `json:"text"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Package api holds one stateless request-builder set per backend area.
// Modules shape requests and decode typed responses; they contain no logic
// beyond that.
package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/model"
)

type Chat struct {
	client *backend.Client
}

func NewChat(c *backend.Client) *Chat {
	return &Chat{client: c}
}

type historyResponse struct {
	Messages []model.ChatMessage `json:"messages"`
	Contact  model.ChatContact   `json:"contact"`
}

// History fetches a room's prior messages (oldest first) and the peer
// contact shown in the room header.
func (a *Chat) History(ctx context.Context, token, roomID string) ([]model.ChatMessage, model.ChatContact, error) {
	var resp historyResponse
	path := "/chat/messages/" + url.PathEscape(roomID)
	if err := a.client.Get(ctx, path, token, &resp); err != nil {
		return nil, model.ChatContact{}, err
	}
	return resp.Messages, resp.Contact, nil
}

type sendRequest struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

// Send persists a message; this call is the system of record. The live
// relay push happens separately, only after Send succeeds.
func (a *Chat) Send(ctx context.Context, token, roomID, text string) error {
	return a.client.Post(ctx, "/chat/send", token, sendRequest{RoomID: roomID, Message: text}, nil)
}

// DirectRoom resolves (or creates, server-side) the direct room with
// another user.
func (a *Chat) DirectRoom(ctx context.Context, token, userID string) (model.ChatRoom, error) {
	var room model.ChatRoom
	path := "/chat/room/" + url.PathEscape(userID)
	if err := a.client.Get(ctx, path, token, &room); err != nil {
		return model.ChatRoom{}, err
	}
	if room.ID == "" {
		return model.ChatRoom{}, fmt.Errorf("chat: backend returned room without id for user %s", userID)
	}
	return room, nil
}

// Rooms lists the current user's rooms.
func (a *Chat) Rooms(ctx context.Context, token string) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	if err := a.client.Get(ctx, "/chat/rooms", token, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

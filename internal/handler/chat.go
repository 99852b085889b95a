package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/proconnect/internal/api"
	"github.com/proconnect/internal/chat"
	"github.com/proconnect/internal/middleware"
	"github.com/proconnect/internal/model"
)

// chatAPI binds the session token into the chat.API interface so the
// conversation core stays free of HTTP concerns.
type chatAPI struct {
	chats *api.Chat
	token string
}

func (a chatAPI) History(ctx context.Context, roomID string) ([]model.ChatMessage, model.ChatContact, error) {
	return a.chats.History(ctx, a.token, roomID)
}

func (a chatAPI) Send(ctx context.Context, roomID, text string) error {
	return a.chats.Send(ctx, a.token, roomID, text)
}

type chatRoomsData struct {
	Rooms []model.ChatRoom
}

type chatMessage struct {
	model.ChatMessage
	Mine bool
}

type chatRoomData struct {
	RoomID   string
	Contact  model.ChatContact
	Messages []chatMessage
}

func (h *Handlers) ChatRooms(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r.Context())
	rooms, err := h.chats.Rooms(r.Context(), s.Token())
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "chat_rooms", "Messaging", chatRoomsData{Rooms: rooms})
}

// ChatRoom renders the conversation with its history. The page only loads
// the log; live traffic goes over the separate WebSocket bridge once the
// page script connects.
func (h *Handlers) ChatRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room")
	s := middleware.GetSession(r.Context())

	sess := chat.NewSession(roomID, s.User(), chatAPI{chats: h.chats, token: s.Token()}, h.dialer)
	defer sess.Close()
	if err := sess.LoadHistory(r.Context()); err != nil {
		h.fail(w, r, err, "/chat")
		return
	}

	msgs := sess.Messages()
	out := make([]chatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = chatMessage{ChatMessage: m, Mine: sess.Mine(m)}
	}
	contact := sess.Contact()
	title := contact.Name
	if title == "" {
		title = "Messaging"
	}
	h.render(w, r, http.StatusOK, "chat_room", title, chatRoomData{
		RoomID:   roomID,
		Contact:  contact,
		Messages: out,
	})
}

// ChatDirect resolves the direct room with another user and lands in it.
// Profile pages link here by slug.
func (h *Handlers) ChatDirect(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	s := middleware.GetSession(r.Context())
	room, err := h.chats.DirectRoom(r.Context(), s.Token(), user)
	if err != nil {
		h.fail(w, r, err, "/chat")
		return
	}
	http.Redirect(w, r, "/chat/"+room.ID, http.StatusSeeOther)
}

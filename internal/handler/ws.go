package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/proconnect/internal/backend"
	"github.com/proconnect/internal/chat"
	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/middleware"
)

const (
	defaultWSWriteWait = 10 * time.Second
	defaultWSFrameSize = 4096
	defaultWSSendBuf   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// browser -> bridge
type wsInbound struct {
	Message string `json:"message"`
}

// bridge -> browser, send acknowledgements
type wsAck struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChatWS bridges the browser's WebSocket to one chat session: inbound
// relay frames are pushed down to the page, browser sends go through the
// two-phase Send and come back as an ok/error acknowledgement. One
// connection per open room view; the session dies with the connection.
func (h *Handlers) ChatWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room")
	s := middleware.GetSession(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("ws upgrade room=%s: %v", roomID, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.ws.MaxFrameSize)

	sess := chat.NewSession(roomID, s.User(), chatAPI{chats: h.chats, token: s.Token()}, h.dialer)
	defer sess.Close()

	// Single writer: relay frames and send acks funnel through one
	// channel so nothing races on the connection.
	outbound := make(chan []byte, h.ws.SendBuffer)
	sess.OnFrame(func(f chat.Frame) {
		raw, err := json.Marshal(f)
		if err != nil {
			return
		}
		select {
		case outbound <- raw:
		default:
			logger.Errorf("ws outbound full room=%s, dropping frame", roomID)
		}
	})

	dialCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = sess.Open(dialCtx)
	cancel()
	if err != nil {
		logger.Errorf("ws relay open room=%s: %v", roomID, err)
		// Keep the browser connection: sends still persist over REST and
		// come back as ErrTransportClosed acks.
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for raw := range outbound {
			conn.SetWriteDeadline(time.Now().Add(h.ws.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("ws read room=%s: %v", roomID, err)
			}
			break
		}
		var in wsInbound
		if err := json.Unmarshal(raw, &in); err != nil {
			h.ack(outbound, wsAck{Error: "Invalid message"})
			continue
		}
		if err := sess.Send(r.Context(), in.Message); err != nil {
			h.ack(outbound, wsAck{Error: sendErrorMessage(err)})
			continue
		}
		h.ack(outbound, wsAck{OK: true})
	}

	// Teardown order matters: only after the receive goroutine has exited
	// can the outbound channel be closed without racing OnFrame.
	sess.Close()
	sess.Wait()
	close(outbound)
	<-writerDone
}

func (h *Handlers) ack(outbound chan<- []byte, a wsAck) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	select {
	case outbound <- raw:
	default:
	}
}

// sendErrorMessage maps a Send failure to the line shown in the toast.
func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Message is empty"
	case errors.Is(err, chat.ErrTransportClosed):
		return "Message saved, but live delivery is down; reload to see it"
	case errors.Is(err, backend.ErrUnauthorized):
		return "Session expired, sign in again"
	default:
		return userMessage(err, "Message could not be sent")
	}
}

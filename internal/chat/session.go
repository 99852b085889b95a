// Package chat manages one real-time conversation view: load history over
// REST, keep a live relay connection, send outgoing messages durably, and
// merge inbound frames into the displayed log. One Session is 1:1 with one
// viewed room; switching rooms tears it down and creates a new one.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/proconnect/internal/logger"
	"github.com/proconnect/internal/model"
)

var (
	// ErrClosed is returned when an operation reaches a session that has
	// already been torn down.
	ErrClosed = errors.New("chat: session closed")

	// ErrTransportClosed is returned by Send when the REST persist
	// succeeded but the live relay connection is not open. The message is
	// durable server-side yet was not broadcast.
	ErrTransportClosed = errors.New("chat: transport not open")

	// ErrEmptyMessage rejects blank sends before any network call.
	ErrEmptyMessage = errors.New("chat: empty message")
)

// State is the lifecycle of one mounted session. Closure is terminal;
// there is no reconnect state.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// API is the durable, REST side of a conversation (the system of record).
type API interface {
	History(ctx context.Context, roomID string) ([]model.ChatMessage, model.ChatContact, error)
	Send(ctx context.Context, roomID, text string) error
}

// Session owns the room's in-memory message log and the relay connection.
type Session struct {
	roomID string
	user   model.UserInfo
	api    API
	dialer Dialer

	mu      sync.Mutex
	state   State
	log     []model.ChatMessage
	contact model.ChatContact
	tr      Transport
	onFrame func(Frame)

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSession creates a session in the Connecting state. Nothing touches the
// network until LoadHistory or Open is called.
func NewSession(roomID string, user model.UserInfo, api API, dialer Dialer) *Session {
	return &Session{
		roomID: roomID,
		user:   user,
		api:    api,
		dialer: dialer,
		state:  StateConnecting,
		done:   make(chan struct{}),
	}
}

// OnFrame registers a listener invoked for every inbound frame that was
// appended to the log. Must be set before Open.
func (s *Session) OnFrame(fn func(Frame)) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// LoadHistory fetches the room's prior messages and contact metadata. On
// failure the log stays empty and the caller surfaces the error; there is
// no automatic retry. History is prepended ahead of any live frames that
// arrived while the fetch was in flight, so a fast relay frame cannot be
// lost or reordered against it.
func (s *Session) LoadHistory(ctx context.Context) error {
	defer logger.DeferLogDuration("chat.LoadHistory", time.Now())()
	msgs, contact, err := s.api.History(ctx, s.roomID)
	if err != nil {
		return fmt.Errorf("load history room=%s: %w", s.roomID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		// The view was torn down while the fetch was in flight; discard.
		return ErrClosed
	}
	s.log = append(msgs, s.log...)
	for i := range s.log {
		s.log[i].ID = i + 1
	}
	s.contact = contact
	return nil
}

// Open dials the relay and starts consuming inbound frames. The session
// moves Connecting -> Open; a dial failure or a Close during the dial
// leaves it Closed.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateConnecting {
		st := s.state
		s.mu.Unlock()
		if st == StateClosed {
			return ErrClosed
		}
		return fmt.Errorf("chat: open in state %s", st)
	}
	s.mu.Unlock()

	tr, err := s.dialer.Dial(ctx, s.roomID)
	if err != nil {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return fmt.Errorf("dial relay room=%s: %w", s.roomID, err)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		tr.Close()
		return ErrClosed
	}
	s.tr = tr
	s.state = StateOpen
	s.mu.Unlock()

	s.wg.Add(1)
	go s.receive(tr)
	return nil
}

// receive appends inbound frames in arrival order. No dedup and no
// sequencing: a frame delivered twice by the relay renders twice.
func (s *Session) receive(tr Transport) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case f, ok := <-tr.Frames():
			if !ok {
				// Relay closed the connection; terminal for this session.
				s.mu.Lock()
				if s.state == StateOpen {
					s.state = StateClosed
				}
				s.mu.Unlock()
				logger.Debugf("chat relay closed room=%s", s.roomID)
				return
			}
			if fn, appended := s.append(f); appended && fn != nil {
				fn(f)
			}
		}
	}
}

// append adds a frame at the tail of the log unless the session has been
// closed in the meantime; no frame is processed after Close.
func (s *Session) append(f Frame) (func(Frame), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil, false
	}
	s.log = append(s.log, model.ChatMessage{
		ID:             len(s.log) + 1,
		Message:        f.Message,
		Sender:         f.Sender,
		ProfilePicture: f.ProfilePicture,
	})
	return s.onFrame, true
}

// Send is the two-phase outgoing path: the REST call persists the message
// first; only on its success is the frame pushed onto the relay so other
// viewers see it. A REST failure sends nothing over the relay and the
// compose input is left for the user to retry. A REST success with a
// non-open relay still reports ErrTransportClosed: durable but not
// broadcast.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if err := s.api.Send(ctx, s.roomID, text); err != nil {
		return fmt.Errorf("persist message room=%s: %w", s.roomID, err)
	}

	s.mu.Lock()
	tr, st := s.tr, s.state
	s.mu.Unlock()
	if st != StateOpen || tr == nil {
		return ErrTransportClosed
	}
	f := Frame{Message: text, Sender: s.user.Name, ProfilePicture: s.user.ProfilePicture}
	if err := tr.Send(f); err != nil {
		return fmt.Errorf("relay send room=%s: %w", s.roomID, err)
	}
	return nil
}

// Close tears the session down. Safe to call multiple times from any
// goroutine; the transport handle is closed exactly once, on every exit
// path (unmount, room change, relay closure).
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		tr := s.tr
		s.mu.Unlock()
		close(s.done)
		if tr != nil {
			tr.Close()
		}
	})
}

// Wait blocks until the receive goroutine has exited.
func (s *Session) Wait() {
	s.wg.Wait()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the merged log, oldest first.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

// Contact returns the room header metadata from the history fetch.
func (s *Session) Contact() model.ChatContact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// Mine classifies a message by comparing its sender name with the current
// display name. The wire frames carry no stable sender id, so two
// participants sharing a display name would both classify as "mine".
func (s *Session) Mine(m model.ChatMessage) bool {
	return m.Sender == s.user.Name
}

package chat

import "context"

// Frame is the wire shape exchanged with the relay, identical inbound and
// outbound. There is no handshake, heartbeat, or acknowledgment beyond the
// connection's own open/close events.
type Frame struct {
	Message        string `json:"message"`
	Sender         string `json:"sender"`
	ProfilePicture string `json:"profile_picture"`
}

// Transport is one live relay connection, scoped to a single room and
// exclusively owned by one session. The frames channel closes when the
// connection does.
type Transport interface {
	Frames() <-chan Frame
	Send(Frame) error
	Close() error
}

// Dialer establishes a Transport for a room.
type Dialer interface {
	Dial(ctx context.Context, roomID string) (Transport, error)
}

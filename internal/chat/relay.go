package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/proconnect/internal/logger"
)

const (
	defaultRelayWriteWait = 10 * time.Second
	defaultRelayFrameSize = 4096
	defaultRelayFrameBuf  = 64
)

// RelayConfig tunes the relay connections. Zero values fall back to the
// defaults above.
type RelayConfig struct {
	WriteTimeout time.Duration
	MaxFrameSize int64
	FrameBuffer  int
}

// RelayDialer opens WebSocket connections to the chat relay at
// {base}/ws/{room}. The URL carries no token; the relay is assumed to
// enforce access out of band.
type RelayDialer struct {
	baseURL string
	cfg     RelayConfig
	dialer  *websocket.Dialer
}

func NewRelayDialer(baseURL string, cfg RelayConfig) *RelayDialer {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultRelayWriteWait
	}
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = defaultRelayFrameSize
	}
	if cfg.FrameBuffer <= 0 {
		cfg.FrameBuffer = defaultRelayFrameBuf
	}
	return &RelayDialer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cfg:     cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (d *RelayDialer) Dial(ctx context.Context, roomID string) (Transport, error) {
	u := d.baseURL + "/ws/" + url.PathEscape(roomID)
	conn, _, err := d.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("relay dial %s: %w", u, err)
	}
	return newRelayConn(conn, roomID, d.cfg), nil
}

// relayConn adapts one gorilla connection to the Transport interface: a
// single reader goroutine feeds the frames channel; writes are serialized
// by a mutex.
type relayConn struct {
	conn      *websocket.Conn
	roomID    string
	frames    chan Frame
	writeWait time.Duration

	writeMu sync.Mutex
	once    sync.Once
}

func newRelayConn(conn *websocket.Conn, roomID string, cfg RelayConfig) *relayConn {
	c := &relayConn{
		conn:      conn,
		roomID:    roomID,
		frames:    make(chan Frame, cfg.FrameBuffer),
		writeWait: cfg.WriteTimeout,
	}
	conn.SetReadLimit(cfg.MaxFrameSize)
	go c.readLoop()
	return c
}

// readLoop delivers frames strictly in the order the connection delivers
// them. Exits (and closes the frames channel) on any read error, including
// the one triggered by Close.
func (c *relayConn) readLoop() {
	defer close(c.frames)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("relay read room=%s: %v", c.roomID, err)
			}
			return
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			logger.Errorf("relay frame decode room=%s: %v", c.roomID, err)
			continue
		}
		c.frames <- f
	}
}

func (c *relayConn) Frames() <-chan Frame {
	return c.frames
}

func (c *relayConn) Send(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return fmt.Errorf("relay write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("relay write: %w", err)
	}
	return nil
}

// Close is safe to call multiple times; the underlying close unblocks the
// read loop, which then closes the frames channel.
func (c *relayConn) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		deadline := time.Now().Add(c.writeWait)
		c.conn.SetWriteDeadline(deadline)
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

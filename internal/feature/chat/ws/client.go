package ws

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single outbound frame.
	writeWait = 10 * time.Second

	// pongWait bounds how long a silent peer stays connected.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames.
	maxMessageSize = 64 * 1024

	// sendBufferSize is the outbound queue per connection. A client whose
	// buffer fills up is disconnected rather than allowed to block fanout.
	sendBufferSize = 64
)

// sessionSeq hands out process-local session ids so that several devices of
// the same user are distinguishable in the registry and in logs.
var sessionSeq atomic.Uint64

// Client is one live authenticated connection. It owns the websocket conn and
// serializes every outbound write through the send channel.
type Client struct {
	UserID    string
	sessionID uint64

	conn *websocket.Conn
	send chan []byte
	once sync.Once
	log  *slog.Logger
}

// NewClient wraps an upgraded connection for the given authenticated user.
func NewClient(log *slog.Logger, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID:    userID,
		sessionID: sessionSeq.Add(1),
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		log:       log,
	}
}

// SessionID returns the process-local id of this connection.
func (c *Client) SessionID() uint64 { return c.sessionID }

// enqueue queues a frame for delivery without blocking.
// It reports false when the buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// stop closes the send channel exactly once, letting the write pump drain and
// exit. Only the registry calls this, under its lock.
func (c *Client) stop() {
	c.once.Do(func() { close(c.send) })
}

// writePump writes queued frames and keepalive pings until the send channel is
// closed or the peer goes away. It runs in its own goroutine per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Warn("failed to push frame",
					"user_id", c.UserID,
					"session_id", c.sessionID,
					"error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

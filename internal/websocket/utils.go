package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps a gorilla connection with a write lock so the tick pusher and
// the action loop can share it.
type Conn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewConn wraps an upgraded connection.
func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// WriteTyped sends a strongly-typed payload with a write deadline.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func (c *Conn) WriteError(errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes one message with a read deadline.
func (c *Conn) ReadJSON(v interface{}) error {
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	return c.conn.ReadJSON(v)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

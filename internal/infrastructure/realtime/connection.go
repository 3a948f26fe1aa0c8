package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// State is the lifecycle phase of a connection. Transitions are one-way:
// Connecting -> Admitted -> Disconnected. A connection that never passes the
// session gate goes straight from Connecting to Disconnected.
type State int32

const (
	StateConnecting State = iota
	StateAdmitted
	StateDisconnected
)

var errConnClosed = errors.New("realtime: connection closed")

// Connection wraps one websocket session for an identity and serializes
// outbound writes through a buffered channel. Many connections may exist for
// the same identity (multi-device).
type Connection struct {
	ID         string
	IdentityID string
	JoinedAt   time.Time

	ws    *websocket.Conn
	send  chan []byte
	state atomic.Int32
	once  sync.Once
	close chan struct{}
}

// NewConnection constructs a Connection in the Connecting state.
func NewConnection(identityID string, ws *websocket.Conn) *Connection {
	return &Connection{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		JoinedAt:   time.Now().UTC(),
		ws:         ws,
		send:       make(chan []byte, 128),
		close:      make(chan struct{}),
	}
}

// State reports the current lifecycle phase.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// Admit marks the connection as gate-approved. It must be called before the
// connection joins the registry and is a no-op once disconnected.
func (c *Connection) Admit() {
	c.state.CompareAndSwap(int32(StateConnecting), int32(StateAdmitted))
}

// Start launches the write loop. Call exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. A slow client whose buffer fills up is
// closed to keep backpressure bounded.
func (c *Connection) Send(payload []byte) error {
	if c.State() == StateDisconnected {
		return errConnClosed
	}
	select {
	case <-c.close:
		return errConnClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("realtime: send buffer exceeded")
	}
}

// Close terminates the connection, stops the write loop, and moves the
// connection to Disconnected. Safe to call multiple times.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		c.state.Store(int32(StateDisconnected))
		close(c.close)
		if c.ws != nil {
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
			_ = c.ws.Close()
		}
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

package bus

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a single websocket connection to the assistant message bus.
//
// A Conn belongs to exactly one exchange: it is dialled, used for one
// send plus the reads of one correlation window, and closed. There is no
// retry at this layer — a connect, send, or receive failure propagates
// immediately as a transport error.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens a websocket connection to the bus.
//
// Parameters:
//   - uri: Bus websocket URI (e.g. ws://localhost:8181/core)
//   - timeout: Bound on the handshake; expiry is reported as ErrConnect
//
// Returns:
//   - *Conn: Open connection ready for Send/Receive
//   - error: ErrConnect-wrapped dial failure
func Dial(uri string, timeout time.Duration) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	ws, resp, err := dialer.Dial(uri, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close() //nolint:errcheck // handshake response body, best effort
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, uri, err)
	}
	return &Conn{ws: ws}, nil
}

// Send writes one message to the bus as a JSON text frame.
func (c *Conn) Send(msg Message) error {
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	return nil
}

// Receive performs a single blocking read and decodes the next event.
//
// The returned error preserves the underlying cause, so callers can
// detect an expired read deadline with net.Error.Timeout through
// errors.As.
func (c *Conn) Receive() (Message, error) {
	var msg Message
	if err := c.ws.ReadJSON(&msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrReceive, err)
	}
	return msg, nil
}

// SetReadDeadline bounds all subsequent reads on the connection.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// Close closes the underlying websocket connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

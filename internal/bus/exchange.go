package bus

import (
	"errors"
	"net"
	"time"

	"github.com/smartgic/ovos-bridge/internal/infrastructure/logging"
)

// Config holds the immutable settings for bus exchanges.
//
// Construct it once from the loaded configuration and pass it into
// NewExchanger — never reach for ambient state.
type Config struct {
	// URI is the websocket address of the assistant bus.
	URI string

	// ConnectTimeout bounds the dial of each exchange.
	ConnectTimeout time.Duration

	// ReceiveTimeout is the correlation window: the wall-clock budget for
	// a matching reply to appear after the outbound message is sent.
	ReceiveTimeout time.Duration
}

// Exchanger drives request/reply exchanges against the assistant bus.
//
// Every call to Exchange dials a private connection, so an Exchanger is
// safe for concurrent use: concurrent exchanges are fully independent and
// carry their own correlation windows.
type Exchanger struct {
	cfg    Config
	logger *logging.Logger
}

// NewExchanger creates an Exchanger with the given settings.
func NewExchanger(cfg Config, logger *logging.Logger) *Exchanger {
	return &Exchanger{cfg: cfg, logger: logger}
}

// Exchange sends outbound on a fresh bus connection and, when waitFor is
// non-empty, waits for the first matching reply within the receive window.
//
// An empty waitFor is fire-and-forget: send, close, return (nil, nil).
//
// With a waitFor type, inbound events are read one at a time until:
//   - an event of the expected type arrives with a non-empty data payload,
//     or with context.authenticated false — it is returned (the caller must
//     check Context.Authenticated before trusting Data), or
//   - the correlation window expires — (nil, nil) is returned; a timeout is
//     a negative result, not an error.
//
// Unrelated broadcast traffic inside the window is discarded. Correlation
// is purely by type name: the bus has no request IDs, so a concurrent
// caller's identical reply type can satisfy this wait.
//
// The connection is closed on every exit path, including transport
// failures mid-window: close first, then propagate the error.
func (e *Exchanger) Exchange(outbound Message, waitFor string) (*Message, error) {
	conn, err := Dial(e.cfg.URI, e.cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	if err := conn.Send(outbound); err != nil {
		conn.Close() //nolint:errcheck // send failure is the error that matters
		return nil, err
	}

	if waitFor == "" {
		conn.Close() //nolint:errcheck // nothing further to read
		return nil, nil
	}

	deadline := time.Now().Add(e.cfg.ReceiveTimeout)
	for time.Now().Before(deadline) {
		if err := conn.SetReadDeadline(deadline); err != nil {
			conn.Close() //nolint:errcheck // deadline failure is the error that matters
			return nil, err
		}

		reply, err := conn.Receive()
		if err != nil {
			conn.Close() //nolint:errcheck // receive failure is the error that matters
			if isTimeout(err) {
				return nil, nil
			}
			return nil, err
		}

		if reply.Type != waitFor {
			e.logger.Debug("discarding unrelated bus event",
				"got", reply.Type,
				"want", waitFor,
			)
			continue
		}

		// A matching reply counts when it carries data, or when the bus
		// flags it unauthenticated — the caller must see that rejection
		// rather than wait for a differently-authenticated duplicate.
		if len(reply.Data) > 0 || !reply.Context.Authenticated {
			conn.Close() //nolint:errcheck // reply already in hand
			return &reply, nil
		}
	}

	conn.Close() //nolint:errcheck // window expired, nothing in hand
	return nil, nil
}

// isTimeout reports whether err is an expired read deadline.
func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

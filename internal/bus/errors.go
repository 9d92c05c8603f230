package bus

import "errors"

// Domain-specific errors for bus operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnect is returned when the websocket dial fails or times out.
	ErrConnect = errors.New("bus: connect failed")

	// ErrSend is returned when writing a message to the bus fails.
	ErrSend = errors.New("bus: send failed")

	// ErrReceive is returned when reading from the bus fails for a reason
	// other than the correlation window expiring.
	ErrReceive = errors.New("bus: receive failed")
)

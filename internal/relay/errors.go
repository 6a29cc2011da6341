package relay

import (
	"errors"
	"fmt"
)

// ErrAlreadyRun is returned by Run on a Relay that has already been run.
var ErrAlreadyRun = errors.New("relay already run")

// StreamError describes the I/O failure that ended a relay session.
type StreamError struct {
	// Side is the name of the endpoint whose operation failed.
	Side string
	// Op is "read" or "write".
	Op string
	// Err is the underlying error.
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Side, e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

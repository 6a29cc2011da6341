package tap

import "errors"

var (
	// ErrOpenLog means the traffic log file could not be opened.
	ErrOpenLog = errors.New("cannot open traffic log")
)

package engine

import (
	"context"

	"github.com/MKhiriev/uci-relay/internal/line"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/engine_mock.go -package=mock

// Handle is a running engine process owned by one session.
type Handle interface {
	// Conn reads the engine's stdout and writes the engine's stdin.
	Conn() line.Conn

	// PID returns the operating system process id.
	PID() int

	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}

	// Terminate closes the pipes and stops the process. Only the first call
	// does any work; later calls return its result.
	Terminate(ctx context.Context) error
}

// Spawner starts engine processes.
type Spawner interface {
	// Launch starts a new process. Failures wrap ErrSpawnFailed.
	Launch(ctx context.Context) (Handle, error)
}

package server

// Server defines the common lifecycle contract for servers managed by this
// package.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving and blocks until the server stops.
	RunServer()

	// Shutdown stops the server and frees associated resources.
	Shutdown()
}

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

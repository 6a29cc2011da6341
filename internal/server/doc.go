// Package server hosts the engine on a TCP port.
//
// A [Listener] accepts one client at a time. Each accepted connection gets a
// freshly spawned engine and a relay between the socket and the engine's
// pipes; when the relay ends the engine is terminated and the listener
// accepts again. Further dialers wait in the kernel backlog meanwhile.
//
// [NewServer] combines the listener with the optional HTTP status endpoint
// under the [Server] lifecycle used by cmd/server.
package server

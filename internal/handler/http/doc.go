// Package http implements the optional status endpoint of the engine server.
//
// Routes:
//
//	GET /api/status    listener state and session counters as JSON
//	GET /api/version/  build version as plain text
//
// Every request gets a trace id and an access log entry.
package http

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ServerStats is a point-in-time snapshot of the engine server.
type ServerStats struct {
	// State is the listener state: idle, awaiting_connection,
	// session_active or stopped.
	State string `json:"state"`

	// Address is the bound TCP address.
	Address string `json:"address"`

	// SessionsServed counts sessions that reached the relay and ended.
	SessionsServed int64 `json:"sessions_served"`

	// SpawnFailures counts connections closed because the engine could not
	// be started.
	SpawnFailures int64 `json:"spawn_failures"`

	// ActiveSession describes the session in progress, if any.
	ActiveSession *ActiveSession `json:"active_session,omitempty"`

	// LastSession describes the most recently finished session, if any.
	LastSession *SessionSummary `json:"last_session,omitempty"`
}

// ActiveSession describes the session currently being relayed.
type ActiveSession struct {
	ID        string    `json:"id"`
	Peer      string    `json:"peer"`
	EnginePID int       `json:"engine_pid"`
	StartedAt time.Time `json:"started_at"`
}

// SessionSummary describes a finished session.
type SessionSummary struct {
	ID            string        `json:"id"`
	Peer          string        `json:"peer"`
	EndedBy       string        `json:"ended_by"`
	LinesToEngine int64         `json:"lines_to_engine"`
	LinesToClient int64         `json:"lines_to_client"`
	Duration      time.Duration `json:"duration_ns"`
	Error         string        `json:"error,omitempty"`
}

// ServerStatus is the body of the status endpoint.
type ServerStatus struct {
	Version    string        `json:"version"`
	Uptime     time.Duration `json:"uptime_ns"`
	ExternalIP string        `json:"external_ip,omitempty"`
	ServerStats
}

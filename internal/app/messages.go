// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the startup output shared by the relay binaries:
// human-readable messages, the server banner and the external IP lookup
// that feeds it.
//
// All Msg* constants are written to the terminal or to log entries. Keeping
// them in one place keeps the wording consistent between the banner and the
// logs.
package app

const (
	// MsgServerTitle heads the server banner.
	MsgServerTitle = "UCI relay server"

	// MsgWaitingForConnections is shown once the listener is bound and the
	// accept loop is about to start.
	MsgWaitingForConnections = "waiting for connections..."

	// MsgExternalIPUnknown replaces the external address when the lookup
	// was skipped or failed.
	MsgExternalIPUnknown = "unknown"

	// MsgConnectPlaceholder stands in for the host in the connect hint when
	// neither the external IP nor a concrete bind host is known.
	MsgConnectPlaceholder = "<server-ip>"

	// MsgConnectFailed prefixes the client's diagnostic when the server is
	// unreachable.
	MsgConnectFailed = "could not connect to the relay server"
)

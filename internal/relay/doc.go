// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package relay pumps protocol lines between two line.Conn endpoints.
//
// A [Relay] runs one forwarding loop per direction. Each loop holds at most
// one line in flight: it does not read the next line until the previous
// write has returned, so a slow destination back-pressures its source and
// memory stays bounded. The first loop to stop, for any reason, closes both
// endpoints so the other loop unblocks, and the session is over. A Relay is
// single-use and never retries.
package relay

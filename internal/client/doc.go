// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the GUI-facing side of the relay.
//
// The client binary is configured in a chess GUI as if it were the engine.
// It dials the server once, then forwards every line the GUI writes to its
// stdin over the socket and every line the server sends back to its stdout,
// until either side goes away or the GUI sends "quit".
package client

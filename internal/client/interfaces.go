// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"net"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/client_mock.go -package=mock

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run connects, relays one session and blocks until it ends.
	Run(ctx context.Context) error
}

// Dialer opens the connection to the server. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

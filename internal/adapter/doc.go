// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to third-party HTTP services on behalf of the server.
//
// The only adapter today is the external IP resolver used for the startup
// banner and the status endpoint. It queries plain-text "what is my IP"
// services in order and returns the first valid address.
package adapter

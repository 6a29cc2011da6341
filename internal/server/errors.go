// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrBind means the listening socket could not be created.
	ErrBind = errors.New("cannot bind listen address")

	// ErrAlreadyServing is returned by a second concurrent Serve call.
	ErrAlreadyServing = errors.New("listener is already serving")

	errNoListener = errors.New("no listener to run")
)

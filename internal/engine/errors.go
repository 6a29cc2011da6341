// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package engine

import "errors"

var (
	// ErrSpawnFailed means the engine executable could not be started.
	ErrSpawnFailed = errors.New("engine spawn failed")
)

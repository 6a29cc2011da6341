// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package engine spawns and supervises the engine process hosted by the
// server.
//
// A [Launcher] starts one process per session. The returned [Handle] exposes
// the process's stdout and stdin as a single line.Conn named "engine", a Done
// channel closed when the process exits, and Terminate, which asks the
// process to stop and kills it after a grace period.
//
// Stderr is never part of the protocol stream. Its lines are written to the
// diagnostic log at debug level.
package engine

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package line frames byte streams into newline-terminated protocol lines.
//
// A [Channel] binds a read half and a write half of one underlying stream
// (a TCP connection, an engine's stdin/stdout pipe pair, or the process's own
// stdio) and exposes them as [Conn]. Lines are opaque: the only byte the
// package interprets is the '\n' terminator.
//
// Bytes following the last terminator when the stream ends are delivered as
// one final line, and the call after that reports [io.EOF]. Writers always
// terminate what they send, so such a line reaches the peer terminated.
package line

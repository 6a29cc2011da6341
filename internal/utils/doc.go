// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small helpers shared by the server packages: JSON
// responses, the resty HTTP client and UUIDv7 identifiers.
package utils

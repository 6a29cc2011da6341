package client

import "errors"

// ErrConnectFailed is returned by Connect and Run when the server could not
// be reached within the configured attempts.
var ErrConnectFailed = errors.New("connect to server failed")

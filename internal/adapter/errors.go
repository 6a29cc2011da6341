package adapter

import "errors"

var (
	// ErrExternalIPUnavailable is returned when no configured service
	// produced a usable address.
	ErrExternalIPUnavailable = errors.New("external ip unavailable")
	// ErrNoServices is returned when the resolver has nothing to query.
	ErrNoServices = errors.New("no external ip services configured")

	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidAddress   = errors.New("invalid address in response")
)

package config

import "errors"

// Validation errors returned by the role views when required configuration
// groups are incomplete or invalid. All of them are fatal at startup.
var (
	// ErrInvalidEngineConfigs indicates a missing engine path or a negative
	// terminate timeout.
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
	// ErrInvalidServerConfigs indicates a missing or malformed bind address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidClientConfigs indicates a missing or malformed server
	// address, or negative dial settings.
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
	// ErrInvalidLogConfigs indicates logging enabled without a file, or an
	// unknown traffic log format.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
	// ErrInvalidRelayConfigs indicates negative relay limits.
	ErrInvalidRelayConfigs = errors.New("invalid relay configuration")
)

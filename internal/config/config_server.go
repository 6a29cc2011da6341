package config

import (
	"fmt"
)

// ServerConfig is the server-specific view of [StructuredConfig].
type ServerConfig struct {
	// Engine describes the engine spawned for every session.
	Engine Engine
	// Server contains listener and startup settings.
	Server Server
	// Relay contains line framing and teardown limits.
	Relay Relay
	// LogLevel is the diagnostic log level.
	LogLevel string
}

// GetServerConfig builds and validates a server-specific config view,
// falling back to server.json in the working directory.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args, DefaultServerJSON)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg.ServerView()
}

// ServerView maps cfg to a validated [ServerConfig].
func (cfg *StructuredConfig) ServerView() (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		Engine:   cfg.Engine,
		Server:   cfg.Server,
		Relay:    cfg.Relay,
		LogLevel: cfg.Log.Level,
	}

	return serverCfg, serverCfg.validate()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Default values applied beneath every other configuration source.
const (
	DefaultBindAddress       = "0.0.0.0:6242"
	DefaultTerminateTimeout  = 3 * time.Second
	DefaultKeepAlive         = 30 * time.Second
	DefaultExternalIPTimeout = 5 * time.Second
	DefaultDialTimeout       = 10 * time.Second
	DefaultRetryBackoff      = 500 * time.Millisecond
	DefaultLogFormat         = LogFormatText
	DefaultLogLevel          = "info"
	DefaultLogQueueSize      = 1024
	DefaultMaxLineLength     = 1 << 20
	DefaultDrainTimeout      = 2 * time.Second

	// DefaultServerJSON and DefaultClientJSON are read from the working
	// directory when no config path is given and the file exists.
	DefaultServerJSON = "server.json"
	DefaultClientJSON = "client.json"
)

// Traffic log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultExternalIPServices are queried in order until one answers.
var DefaultExternalIPServices = []string{
	"https://api.ipify.org",
	"https://icanhazip.com",
	"https://ifconfig.me/ip",
	"https://checkip.amazonaws.com",
}

// StructuredConfig is the top-level configuration container shared by the
// server and client binaries. It is populated by merging defaults, an
// optional JSON file, environment variables and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Engine describes the engine executable hosted by the server.
	Engine Engine `envPrefix:"ENGINE_"`

	// Server holds the listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Client holds the settings of the GUI-facing client.
	Client Client `envPrefix:"CLIENT_"`

	// Log holds diagnostic log and traffic log settings.
	Log Log `envPrefix:"LOG_"`

	// Relay holds line framing and teardown limits.
	Relay Relay `envPrefix:"RELAY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Engine describes how the server spawns the engine process.
type Engine struct {
	// Path is the engine executable.
	// Env: ENGINE_PATH
	Path string `env:"PATH"`

	// Args are passed to the engine on the command line.
	// Env: ENGINE_ARGS (comma separated)
	Args []string `env:"ARGS" envSeparator:","`

	// Env holds extra KEY=VALUE pairs appended to the server's environment.
	// Env: ENGINE_ENV (comma separated)
	Env []string `env:"ENV" envSeparator:","`

	// WorkDir is the engine's working directory; empty means the server's.
	// Env: ENGINE_WORK_DIR
	WorkDir string `env:"WORK_DIR"`

	// TerminateTimeout is the grace period between the termination signal
	// and the forced kill.
	// Env: ENGINE_TERMINATE_TIMEOUT
	TerminateTimeout time.Duration `env:"TERMINATE_TIMEOUT"`
}

// Server holds network settings of the engine host.
type Server struct {
	// BindAddress is the TCP address the server listens on, "host:port".
	// Env: SERVER_BIND_ADDRESS
	BindAddress string `env:"BIND_ADDRESS"`

	// KeepAlive is the TCP keep-alive period of accepted connections.
	// Env: SERVER_KEEP_ALIVE
	KeepAlive time.Duration `env:"KEEP_ALIVE"`

	// SkipExternalIP disables the external IP lookup at startup.
	// Env: SERVER_SKIP_EXTERNAL_IP
	SkipExternalIP bool `env:"SKIP_EXTERNAL_IP"`

	// ExternalIPServices are plain-text "what is my IP" endpoints.
	// Env: SERVER_EXTERNAL_IP_SERVICES (comma separated)
	ExternalIPServices []string `env:"EXTERNAL_IP_SERVICES" envSeparator:","`

	// ExternalIPTimeout bounds each lookup request.
	// Env: SERVER_EXTERNAL_IP_TIMEOUT
	ExternalIPTimeout time.Duration `env:"EXTERNAL_IP_TIMEOUT"`

	// StatusAddress enables the HTTP status endpoint when non-empty.
	// Env: SERVER_STATUS_ADDRESS
	StatusAddress string `env:"STATUS_ADDRESS"`
}

// Client holds settings of the client bridge.
type Client struct {
	// ServerAddress is the remote server, "host:port".
	// Env: CLIENT_SERVER_ADDRESS
	ServerAddress string `env:"SERVER_ADDRESS"`

	// DialTimeout bounds a single connection attempt.
	// Env: CLIENT_DIAL_TIMEOUT
	DialTimeout time.Duration `env:"DIAL_TIMEOUT"`

	// ConnectRetries is the number of extra attempts after a failed dial.
	// Env: CLIENT_CONNECT_RETRIES
	ConnectRetries int `env:"CONNECT_RETRIES"`

	// RetryBackoff is the first delay between attempts; it doubles each time.
	// Env: CLIENT_RETRY_BACKOFF
	RetryBackoff time.Duration `env:"RETRY_BACKOFF"`
}

// Log holds logging settings. Level applies to both binaries; the rest
// configures the client's traffic log.
type Log struct {
	// Enabled turns the traffic log on.
	// Env: LOG_ENABLED
	Enabled bool `env:"ENABLED"`

	// File is the traffic log path, opened in append mode.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// Format is "text" or "json".
	// Env: LOG_FORMAT
	Format string `env:"FORMAT"`

	// Level is the diagnostic log level.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// QueueSize bounds traffic log entries waiting to be written.
	// Env: LOG_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`
}

// Relay holds limits shared by both relay endpoints.
type Relay struct {
	// MaxLineLength bounds a single protocol line in bytes.
	// Env: RELAY_MAX_LINE_LENGTH
	MaxLineLength int `env:"MAX_LINE_LENGTH"`

	// DrainTimeout bounds teardown of a stuck forwarding loop.
	// Env: RELAY_DRAIN_TIMEOUT
	DrainTimeout time.Duration `env:"DRAIN_TIMEOUT"`
}

// Defaults returns the configuration every other source is merged onto.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Engine: Engine{
			TerminateTimeout: DefaultTerminateTimeout,
		},
		Server: Server{
			BindAddress:        DefaultBindAddress,
			KeepAlive:          DefaultKeepAlive,
			ExternalIPServices: append([]string(nil), DefaultExternalIPServices...),
			ExternalIPTimeout:  DefaultExternalIPTimeout,
		},
		Client: Client{
			DialTimeout:  DefaultDialTimeout,
			RetryBackoff: DefaultRetryBackoff,
		},
		Log: Log{
			Format:    DefaultLogFormat,
			Level:     DefaultLogLevel,
			QueueSize: DefaultLogQueueSize,
		},
		Relay: Relay{
			MaxLineLength: DefaultMaxLineLength,
			DrainTimeout:  DefaultDrainTimeout,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (later sources win
// for non-zero fields):
//  1. Defaults
//  2. JSON file (path resolved from env and flags, else defaultJSON)
//  3. Environment variables
//  4. Command-line flags
func GetStructuredConfig(args []string, defaultJSON string) (*StructuredConfig, error) {
	return newConfigBuilder(args, defaultJSON).
		withEnv().
		withFlags().
		withJSON().
		build()
}

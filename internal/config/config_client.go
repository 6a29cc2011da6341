package config

import (
	"fmt"
)

// ClientConfig is the client-specific view of [StructuredConfig].
type ClientConfig struct {
	// Client contains the remote address and dial settings.
	Client Client
	// Log contains the traffic log and diagnostic level settings.
	Log Log
	// Relay contains line framing and teardown limits.
	Relay Relay
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig] (falling back to
// client.json in the working directory), maps only the fields relevant to
// the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args, DefaultClientJSON)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg.ClientView()
}

// ClientView maps cfg to a validated [ClientConfig].
func (cfg *StructuredConfig) ClientView() (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		Client: cfg.Client,
		Log:    cfg.Log,
		Relay:  cfg.Relay,
	}

	return clientCfg, clientCfg.validate()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the settings shared by both roles after merging.
func (cfg *StructuredConfig) validate() error {
	if cfg.Relay.MaxLineLength < 0 || cfg.Relay.DrainTimeout < 0 {
		return ErrInvalidRelayConfigs
	}

	switch cfg.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidLogConfigs, cfg.Log.Format)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Engine.Path == "" || cfg.Engine.TerminateTimeout < 0 {
		return ErrInvalidEngineConfigs
	}

	if err := ValidateAddress(cfg.Server.BindAddress); err != nil {
		return fmt.Errorf("%w: bind address: %v", ErrInvalidServerConfigs, err)
	}

	if cfg.Server.StatusAddress != "" {
		if err := ValidateAddress(cfg.Server.StatusAddress); err != nil {
			return fmt.Errorf("%w: status address: %v", ErrInvalidServerConfigs, err)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if err := ValidateAddress(cfg.Client.ServerAddress); err != nil {
		return fmt.Errorf("%w: server address: %v", ErrInvalidClientConfigs, err)
	}

	if cfg.Client.DialTimeout < 0 || cfg.Client.ConnectRetries < 0 || cfg.Client.RetryBackoff < 0 {
		return ErrInvalidClientConfigs
	}

	if cfg.Log.Enabled && cfg.Log.File == "" {
		return fmt.Errorf("%w: logging enabled without a log file", ErrInvalidLogConfigs)
	}

	return nil
}

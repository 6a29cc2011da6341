package app

import (
	"context"

	"github.com/MKhiriev/uci-relay/internal/adapter"
	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

// LookupExternalIP asks resolver for the public address unless the lookup is
// disabled. Failures are logged and yield an empty string; they never stop
// the server.
func LookupExternalIP(ctx context.Context, resolver adapter.ExternalIPResolver, cfg config.Server, logger *logger.Logger) string {
	if cfg.SkipExternalIP || resolver == nil {
		logger.Debug().Msg("external ip lookup skipped")
		return ""
	}

	ip, err := resolver.ExternalIP(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not determine external ip")
		return ""
	}

	logger.Info().Str("external_ip", ip).Msg("external ip determined")
	return ip
}

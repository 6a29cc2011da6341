package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/utils"
)

type httpExternalIPResolver struct {
	client   *utils.HTTPClient
	services []string

	logger *logger.Logger
}

// NewExternalIPResolver builds a resolver over cfg.ExternalIPServices. Each
// request is bounded by cfg.ExternalIPTimeout.
func NewExternalIPResolver(cfg config.Server, logger *logger.Logger) ExternalIPResolver {
	timeout := cfg.ExternalIPTimeout
	if timeout <= 0 {
		timeout = config.DefaultExternalIPTimeout
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(timeout).
		SetHeader("Accept", "text/plain").
		SetHeader("User-Agent", "uci-relay")

	return &httpExternalIPResolver{
		client:   client,
		services: append([]string(nil), cfg.ExternalIPServices...),
		logger:   logger,
	}
}

func (r *httpExternalIPResolver) ExternalIP(ctx context.Context) (string, error) {
	if len(r.services) == 0 {
		return "", fmt.Errorf("%w: %w", ErrExternalIPUnavailable, ErrNoServices)
	}

	var errs []error
	for _, service := range r.services {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		ip, err := r.query(ctx, service)
		if err != nil {
			r.logger.Debug().Err(err).Str("service", service).Msg("external ip lookup failed")
			errs = append(errs, fmt.Errorf("%s: %w", service, err))
			continue
		}

		r.logger.Debug().Str("service", service).Str("ip", ip).Msg("external ip resolved")
		return ip, nil
	}

	return "", fmt.Errorf("%w: %w", ErrExternalIPUnavailable, errors.Join(errs...))
}

func (r *httpExternalIPResolver) query(ctx context.Context, service string) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		Get(service)
	if err != nil {
		return "", err
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	ip := strings.TrimSpace(resp.String())
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}

	return ip, nil
}

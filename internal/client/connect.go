package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/sethvargo/go-retry"
)

// maxRetryBackoff caps the doubling delay between connection attempts.
const maxRetryBackoff = 10 * time.Second

// Connect dials the server, retrying cfg.ConnectRetries times with an
// exponential backoff. Each attempt is bounded by cfg.DialTimeout.
func (a *App) Connect(ctx context.Context) (net.Conn, error) {
	cfg := a.cfg.Client

	base := cfg.RetryBackoff
	if base <= 0 {
		base = config.DefaultRetryBackoff
	}
	backoff := retry.WithMaxRetries(uint64(max(cfg.ConnectRetries, 0)),
		retry.WithCappedDuration(maxRetryBackoff, retry.NewExponential(base)))

	var (
		conn    net.Conn
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		dialCtx, cancel := a.dialContext(ctx)
		defer cancel()

		c, err := a.dialer.DialContext(dialCtx, "tcp", cfg.ServerAddress)
		if err != nil {
			a.logger.Warn().Err(err).
				Str("server", cfg.ServerAddress).
				Int("attempt", attempt).
				Msg("connection attempt failed")
			return retry.RetryableError(err)
		}

		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s after %d attempt(s): %w", ErrConnectFailed, cfg.ServerAddress, attempt, err)
	}

	return conn, nil
}

func (a *App) dialContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Client.DialTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, a.cfg.Client.DialTimeout)
}

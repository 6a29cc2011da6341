package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/external_ip_mock.go -package=mock

// ExternalIPResolver discovers the address other hosts see this machine as.
type ExternalIPResolver interface {
	// ExternalIP returns the public IP address. Failures wrap
	// ErrExternalIPUnavailable.
	ExternalIP(ctx context.Context) (string, error)
}

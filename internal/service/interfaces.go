package service

import (
	"context"

	"github.com/MKhiriev/uci-relay/models"
)

// AppInfoService reports build metadata of the running binary.
type AppInfoService interface {
	// GetAppVersion returns the build version string.
	GetAppVersion(ctx context.Context) string
}

// StatusService reports the state of the engine server.
type StatusService interface {
	// GetStatus returns a snapshot of the listener together with the
	// server version, uptime and external address.
	GetStatus(ctx context.Context) models.ServerStatus
}

// StatsSource is implemented by server.Listener.
type StatsSource interface {
	Stats() models.ServerStats
}

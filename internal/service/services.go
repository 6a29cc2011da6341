package service

import (
	"fmt"

	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/models"
)

type Services struct {
	AppInfoService AppInfoService
	StatusService  StatusService
}

func NewServices(source StatsSource, buildInfo models.AppBuildInfo, externalIP string, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	status, err := NewStatusService(source, appInfo, externalIP, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating status service: %w", err)
	}

	return &Services{
		AppInfoService: appInfo,
		StatusService:  status,
	}, nil
}

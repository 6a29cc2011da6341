// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/models"
)

type statusService struct {
	source     StatsSource
	appInfo    AppInfoService
	externalIP string
	startedAt  time.Time
	now        func() time.Time

	logger *logger.Logger
}

// NewStatusService reports stats from source. externalIP may be empty when
// the lookup was skipped or failed.
func NewStatusService(source StatsSource, appInfo AppInfoService, externalIP string, logger *logger.Logger) (StatusService, error) {
	if source == nil {
		return nil, ErrNoStatsSource
	}

	return &statusService{
		source:     source,
		appInfo:    appInfo,
		externalIP: externalIP,
		startedAt:  time.Now(),
		now:        time.Now,
		logger:     logger,
	}, nil
}

func (s *statusService) GetStatus(ctx context.Context) models.ServerStatus {
	status := models.ServerStatus{
		Uptime:      s.now().Sub(s.startedAt).Truncate(time.Millisecond),
		ExternalIP:  s.externalIP,
		ServerStats: s.source.Stats(),
	}
	if s.appInfo != nil {
		status.Version = s.appInfo.GetAppVersion(ctx)
	}

	return status
}

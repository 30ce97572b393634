// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
)

// Services aggregates the reference server services.
type Services struct {
	AuthService    AuthService
	VaultService   VaultService
	AppInfoService AppInfoService
}

func NewServices(cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	return &Services{
		AuthService:    NewAuthService(cfg, logger),
		VaultService:   NewVaultValidationService().Wrap(NewVaultService(cfg, logger)),
		AppInfoService: appInfo,
	}, nil
}

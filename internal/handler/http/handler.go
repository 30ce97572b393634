// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/service"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
)

type Handler struct {
	services *service.Services
	hasher   *utils.Hasher

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg *config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Bool("hash_check", cfg.HashKey != "").Msg("http handler created")
	return &Handler{
		services: services,
		hasher:   utils.NewHasher(cfg.HashKey),
		logger:   logger,
	}
}

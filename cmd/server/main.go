// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"cmp"
	"context"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/handler"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/server"
	"github.com/MKhiriev/go-otp-keeper/internal/service"
	"github.com/MKhiriev/go-otp-keeper/models"
)

const ownerAccount = "owner"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("go-otp-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Version == "" {
		cfg.Version = cmp.Or(buildInfo.BuildVersion(), "dev")
	}

	services, err := service.NewServices(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	token, err := services.AuthService.CreateToken(context.Background(), ownerAccount)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing owner token")
	}
	log.Info().Str("token", token.String()).Time("expires_at", token.ExpiresAt).Msg("issued owner token, pass it to clients as ADAPTER_TOKEN")

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", cmp.Or(info.BuildVersion(), "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(info.BuildDate(), "N/A"))
	fmt.Printf("Build commit: %s\n", cmp.Or(info.BuildCommit(), "N/A"))
}

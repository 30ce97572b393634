// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"cmp"
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-otp-keeper/internal/client"
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("go-otp-client").Fatal().Err(err).Msg("error getting configs")
	}
	log := logger.NewClientLogger("go-otp-client", cfg.Log)
	log.Info().Str("build", buildInfo.String()).Msg("starting client")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer app.Close()

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", cmp.Or(info.BuildVersion(), "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(info.BuildDate(), "N/A"))
	fmt.Printf("Build commit: %s\n", cmp.Or(info.BuildCommit(), "N/A"))
}

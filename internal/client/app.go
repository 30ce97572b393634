// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/adapter"
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/service"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/internal/workers"
)

type App struct {
	Services *service.ClientServices

	storages *store.ClientStorages
	logger   *logger.Logger
}

// NewApp opens the local store, unlocks the key ring with the configured
// account password and wires the client services against the remote API.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	vault, err := service.NewAccountService(crypto.NewKeyChain(), storages.Settings).
		Unlock(ctx, cfg.App.AccountPassword, cfg.App.AccountSalt)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("unlock account: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteClient(cfg.Adapter, cfg.App, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create remote client: %w", err)
	}

	services := service.NewClientServices(storages.Records, remote, vault.KeyRing, vault.AccountKey, cfg.Workers, logger)

	// repair gaps left by an interrupted reorder
	if err = services.Orders.Normalize(ctx); err != nil {
		storages.Close()
		return nil, fmt.Errorf("normalize local order: %w", err)
	}
	logger.Info().Strs("keys", vault.KeyRing.IDs()).Msg("client app created")

	return &App{
		Services: services,
		storages: storages,
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if _, err := a.Services.Coordinator.Sync(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		a.logger.Warn().Err(err).Str("func", "App.Run").Msg("initial sync failed, retrying in background")
	}

	background := workers.New(a.Services.SyncJob)
	background.Start(ctx)
	defer background.Stop()

	<-ctx.Done()
	a.logger.Info().Str("func", "App.Run").Msg("client stopping")
	return nil
}

func (a *App) Close() error {
	return a.storages.Close()
}

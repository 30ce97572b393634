// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-otp-keeper/internal/adapter"
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
)

type ClientServices struct {
	Orders      OrderManager
	Coordinator SyncCoordinator
	Entries     EntryService
	SyncJob     SyncJob
}

// NewClientServices wires the client services over one local store and one
// remote. Local creates and edits trigger the sync job.
func NewClientServices(
	localStore store.LocalStore,
	remote adapter.RemoteClient,
	keyRing *crypto.KeyRing,
	accountKey []byte,
	cfg config.ClientWorkers,
	logger *logger.Logger,
) *ClientServices {
	orders := NewOrderManager(localStore, logger)
	deps := SyncDeps{
		KeyRing:    keyRing,
		KeyChain:   crypto.NewKeyChain(),
		AccountKey: accountKey,
		Cipher:     crypto.NewRecordCipher(),
		Store:      localStore,
		Remote:     remote,
		Orders:     orders,
	}

	coordinator := NewSyncCoordinator(deps, cfg, logger)

	services := &ClientServices{
		Orders:      orders,
		Coordinator: coordinator,
	}
	services.Entries = NewEntryService(deps, cfg, func() { services.SyncJob.Trigger() }, logger)
	services.SyncJob = NewSyncJob(coordinator, services.Entries, cfg.SyncInterval, logger)

	return services
}

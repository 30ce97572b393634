// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

const (
	// MaxBatchSize caps records per push round trip.
	MaxBatchSize = 50

	defaultFullSyncEvery  = 10
	defaultRequestTimeout = 15 * time.Second
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
)

// ClientApp holds account secrets used by the client.
type ClientApp struct {
	// HashKey is the HMAC key for request bodies.
	HashKey string
	// AccountPassword and AccountSalt derive the account key.
	AccountPassword string
	AccountSalt     string
}

// ClientAdapter holds network settings of the client transport.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	Token          string
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	// DSN is the SQLite file path, or ":memory:".
	DSN string
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains background sync settings.
type ClientWorkers struct {
	SyncInterval  time.Duration
	FullSyncEvery int
	BatchSize     int
}

// ClientLog contains client log output settings.
type ClientLog struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	Level      string
}

// ClientConfig is the client view of [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Log     ClientLog
}

// GetClientConfig loads the merged configuration, maps the client fields,
// fills defaults and validates the result.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps cfg to a [ClientConfig] with defaults applied.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey:         cfg.App.HashKey,
			AccountPassword: cfg.App.AccountPassword,
			AccountSalt:     cfg.App.AccountSalt,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			FullSyncEvery: cfg.Workers.FullSyncEvery,
			BatchSize:     cfg.Workers.BatchSize,
		},
		Log: ClientLog{
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			Level:      cfg.Log.Level,
		},
	}

	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if clientCfg.Workers.FullSyncEvery == 0 {
		clientCfg.Workers.FullSyncEvery = defaultFullSyncEvery
	}
	if clientCfg.Workers.BatchSize == 0 {
		clientCfg.Workers.BatchSize = MaxBatchSize
	}
	if clientCfg.Log.MaxSizeMB == 0 {
		clientCfg.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if clientCfg.Log.MaxBackups == 0 {
		clientCfg.Log.MaxBackups = defaultLogMaxBackups
	}

	return clientCfg
}

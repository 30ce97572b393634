// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/hex"
	"fmt"
)

// validate checks settings shared by every role.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.BatchSize < 0 || cfg.Workers.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batch size %d not in [1, %d]", ErrInvalidWorkerConfigs, cfg.Workers.BatchSize, MaxBatchSize)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: address and request timeout are required", ErrInvalidAdapterConfigs)
	}

	if cfg.Workers.SyncInterval <= 0 {
		return fmt.Errorf("%w: sync interval must be positive", ErrInvalidWorkerConfigs)
	}
	if cfg.Workers.FullSyncEvery < 1 {
		return fmt.Errorf("%w: full sync period must be positive", ErrInvalidWorkerConfigs)
	}
	if cfg.Workers.BatchSize < 1 || cfg.Workers.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batch size %d not in [1, %d]", ErrInvalidWorkerConfigs, cfg.Workers.BatchSize, MaxBatchSize)
	}

	if cfg.App.AccountPassword == "" {
		return fmt.Errorf("%w: account password is required", ErrInvalidAppConfigs)
	}
	if salt, err := hex.DecodeString(cfg.App.AccountSalt); err != nil || len(salt) < 16 {
		return fmt.Errorf("%w: account salt must be at least 16 hex encoded bytes", ErrInvalidAppConfigs)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.PageSize < 1 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidServerConfigs)
	}
	return nil
}

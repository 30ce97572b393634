// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
)

// ClientStorages groups the client-side repositories that share one
// database handle.
type ClientStorages struct {
	// Records is the SQLite backed record store.
	Records LocalStore

	// Settings holds the cursor and sealed key material.
	Settings SettingsRepository

	db *DB
}

// NewClientStorages opens the SQLite database named by cfg.DB.DSN, runs
// pending migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Records:  NewLocalStore(db, logger),
		Settings: NewSettingsRepository(db, logger),
		db:       db,
	}, nil
}

// Close releases the database and its file lock.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}

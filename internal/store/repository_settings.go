// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
)

const secretSettingPrefix = "secret."

type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository returns the settings table repository.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{DB: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := r.read(ctx, "settingsRepository.Get", func(ctx context.Context) error {
		err := r.DB.QueryRowContext(ctx, selectSetting, name).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("setting %q: %w", name, ErrSettingNotFound)
		}
		if err != nil {
			return storageErr(ErrExecutingQuery, err)
		}
		return nil
	})
	if errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	return value, err
}

func (r *settingsRepository) Set(ctx context.Context, name string, value []byte) error {
	return r.inTx(ctx, "settingsRepository.Set", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertSetting, name, value); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
}

func (r *settingsRepository) Delete(ctx context.Context, name string) error {
	return r.inTx(ctx, "settingsRepository.Delete", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteSetting, name); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
}

// SecretBackend exposes the settings table as a [crypto.SecureStorage]
// backend. Values are stored as given, so it is meant to sit under
// [crypto.SealedStorage].
type SecretBackend struct {
	settings SettingsRepository
}

// NewSecretBackend wraps settings.
func NewSecretBackend(settings SettingsRepository) *SecretBackend {
	return &SecretBackend{settings: settings}
}

// Get implements [crypto.SecureStorage].
func (b *SecretBackend) Get(ctx context.Context, name string) ([]byte, error) {
	value, err := b.settings.Get(ctx, secretSettingPrefix+name)
	if errors.Is(err, ErrSettingNotFound) {
		return nil, crypto.ErrSecretNotFound
	}
	return value, err
}

// Set implements [crypto.SecureStorage].
func (b *SecretBackend) Set(ctx context.Context, name string, value []byte) error {
	return b.settings.Set(ctx, secretSettingPrefix+name, value)
}

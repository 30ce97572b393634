// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/migrations"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// DB is the client database handle shared by all repositories. Every API
// call of a repository runs under mu, so interactive edits and sync batches
// serialize through the same path.
type DB struct {
	*sql.DB
	mu                 sync.Mutex
	fileLock           *flock.Flock
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// Close closes the connection pool and releases the file lock.
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.fileLock != nil {
		err = errors.Join(err, db.fileLock.Unlock())
	}
	return err
}

// inTx runs fn in one transaction. The transaction is detached from ctx
// cancellation so that a batch is never abandoned half-written. Retryable
// failures (busy/locked database) rerun the whole transaction.
func (db *DB) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)

	db.mu.Lock()
	defer db.mu.Unlock()

	var err error
	for attempt := 0; ; attempt++ {
		err = db.runTx(ctx, fn)
		if err == nil || attempt >= db.maxRetries || db.errorClassificator.Classify(err) != Retryable {
			break
		}

		log.Warn().
			Err(err).
			Str("func", funcName).
			Int("attempt", attempt+1).
			Msg("retrying transaction")
		time.Sleep(db.retryBackoff * time.Duration(attempt+1))
	}

	if err != nil {
		log.Err(err).Str("func", funcName).Msg("transaction failed")
	}
	return err
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return storageErr(ErrCommitingTransaction, err)
	}
	return nil
}

// read runs a read-only fn under the store mutex.
func (db *DB) read(ctx context.Context, funcName string, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := fn(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("read failed")
		return err
	}
	return nil
}

// storageErr wraps a driver error with ErrStorageFailure and a low-level
// kind, keeping both matchable with errors.Is.
func storageErr(kind, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrStorageFailure, kind, err)
}

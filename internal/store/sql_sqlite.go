// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
)

// NewConnectSQLite opens the client database. File databases are guarded by
// an exclusive lock on "<dsn>.lock"; a second process gets [ErrStoreLocked].
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}

	var fileLock *flock.Flock
	if !isMemoryDSN(dsn) {
		path := dsnPath(dsn)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database dir")
				return nil, fmt.Errorf("error creating database dir: %w", err)
			}
		}

		fileLock = flock.New(path + ".lock")
		locked, err := fileLock.TryLock()
		if err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error locking database file")
			return nil, fmt.Errorf("error locking database file: %w", err)
		}
		if !locked {
			log.Error().Str("func", "NewConnectSQLite").Str("path", path).Msg("database file is locked")
			return nil, ErrStoreLocked
		}
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		unlock(fileLock)
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	// one connection: every call is serialized anyway and ":memory:" is
	// per connection
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		unlock(fileLock)
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		fileLock:           fileLock,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
		maxRetries:         defaultMaxRetries,
		retryBackoff:       defaultRetryBackoff,
	}, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// dsnPath strips the "file:" scheme and query parameters.
func dsnPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func unlock(l *flock.Flock) {
	if l != nil {
		_ = l.Unlock()
	}
}

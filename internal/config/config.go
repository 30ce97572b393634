// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the reference server. It is populated by merging
// environment variables, command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Server  Server  `envPrefix:"SERVER_"`
	Adapter Adapter `envPrefix:"ADAPTER_"`
	Workers Workers `envPrefix:"WORKERS_"`
	Log     Log     `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file,
	// from CONFIG or -c / -config.
	JSONFilePath string `env:"CONFIG"`
}

// App holds secrets and identity settings.
type App struct {
	// TokenSignKey signs bearer tokens on the reference server.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long an issued token stays valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// HashKey is the HMAC key for the HashSHA256 body header.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// AccountPassword derives the account key that wraps entry keys.
	// Env: APP_ACCOUNT_PASSWORD
	AccountPassword string `env:"ACCOUNT_PASSWORD"`

	// AccountSalt is the hex encoded Argon2id salt for AccountPassword.
	// Env: APP_ACCOUNT_SALT
	AccountSalt string `env:"ACCOUNT_SALT"`

	// Version is reported by the reference server.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the local SQLite settings.
type DB struct {
	// DSN is the SQLite file path or URI.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds the reference server listener settings.
type Server struct {
	// HTTPAddress is "host:port" to listen on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PageSize is the number of entries per listing page.
	// Env: SERVER_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`
}

// Adapter holds the client's view of the remote API.
type Adapter struct {
	// HTTPAddress is the server base URL or "host:port".
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer token sent with every request.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Workers holds background sync settings.
type Workers struct {
	// SyncInterval is the period of the sync timer.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// FullSyncEvery makes every n-th cycle pull from an empty cursor.
	// Env: WORKERS_FULL_SYNC_EVERY
	FullSyncEvery int `env:"FULL_SYNC_EVERY"`

	// BatchSize is the number of records per push round trip.
	// Env: WORKERS_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`
}

// Log holds log output settings.
type Log struct {
	// File is the log file path; empty means stdout.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// MaxSizeMB rotates the file after this many megabytes.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups is the number of rotated files kept.
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`

	// Level is a zerolog level name ("debug", "info", ...).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads and merges the configuration from all sources
// in priority order (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

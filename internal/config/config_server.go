// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultTokenIssuer    = "go-otp-keeper"
	defaultTokenDuration  = 24 * time.Hour
	defaultServerPageSize = 100
)

// ServerConfig is the reference server view of [StructuredConfig].
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	PageSize       int

	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	HashKey       string
	Version       string
}

// GetServerConfig loads the merged configuration and maps the server fields.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig maps cfg to a [ServerConfig] with defaults applied.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		PageSize:       cfg.Server.PageSize,
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
		TokenDuration:  cfg.App.TokenDuration,
		HashKey:        cfg.App.HashKey,
		Version:        cfg.App.Version,
	}

	if serverCfg.HTTPAddress == "" {
		serverCfg.HTTPAddress = defaultServerAddress
	}
	if serverCfg.TokenIssuer == "" {
		serverCfg.TokenIssuer = defaultTokenIssuer
	}
	if serverCfg.TokenDuration == 0 {
		serverCfg.TokenDuration = defaultTokenDuration
	}
	if serverCfg.PageSize == 0 {
		serverCfg.PageSize = defaultServerPageSize
	}

	return serverCfg
}

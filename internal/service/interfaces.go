// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-otp-keeper/models"
)

// VaultService is the reference server side of the authenticator entry API.
// Entries are opaque: the server never sees plaintext or key material.
type VaultService interface {
	ListKeys(ctx context.Context) ([]models.KeyResponse, error)
	CreateKey(ctx context.Context, wrappedKey string) (models.KeyResponse, error)

	// ListEntries returns the page of entries whose id sorts after since.
	// LastID is set only when more entries follow.
	ListEntries(ctx context.Context, since string) (models.EntryList, error)
	GetEntry(ctx context.Context, entryID string) (models.EntryResponse, error)

	// BulkUpdate creates or updates entries. Results are positional; a
	// per-item failure never fails the whole request.
	BulkUpdate(ctx context.Context, entries []models.BulkEntryRequest) ([]models.BulkEntryResult, error)

	// BulkDelete removes entries. Unknown ids are ignored.
	BulkDelete(ctx context.Context, entryIDs []string) error

	ReorderOne(ctx context.Context, entryID string, afterID *string) error
	ReorderBatch(ctx context.Context, startingPosition int, entryIDs []string) error
}

type AuthService interface {
	CreateToken(ctx context.Context, accountID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// VaultServiceWrapper defines middleware composition for VaultService.
// Implementations wrap an existing VaultService to add behavior such as
// logging or validating.
type VaultServiceWrapper interface {
	Wrap(VaultService) VaultService
}

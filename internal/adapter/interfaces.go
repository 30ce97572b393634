// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the authenticator entry API.
//
// [RemoteClient] is what the sync engine depends on; [NewHTTPRemoteClient]
// implements it over REST with resty. Error values in errors.go are mapped
// from HTTP status codes by mapHTTPError so callers can use [errors.Is]
// without knowing the transport (e.g. [ErrRevisionConflict] for 409,
// [ErrNetworkUnavailable] for transport failures and 502/503/504).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-otp-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient covers the network operations of the sync engine.
type RemoteClient interface {
	// ListKeys returns every entry key of the account, wrapped under the
	// account key.
	ListKeys(ctx context.Context) ([]models.WrappedKey, error)

	// CreateKey uploads a new wrapped key and returns it with its
	// server-assigned id.
	CreateKey(ctx context.Context, wrapped []byte) (models.WrappedKey, error)

	// ListEntries returns the page of entries after cursor since. An empty
	// since starts from the beginning; an empty NextCursor ends the listing.
	ListEntries(ctx context.Context, since string) (models.EntryPage, error)

	// GetEntry fetches one entry. Returns [ErrNotFound] if it is gone.
	GetEntry(ctx context.Context, remoteID string) (models.RemoteRecord, error)

	// CreateOrUpdate pushes a batch. Results are positional. Items with an
	// empty RemoteID are created; others must carry the expected revision.
	CreateOrUpdate(ctx context.Context, entries []models.EntryPush) ([]models.PushResult, error)

	// Delete removes entries. Unknown ids are ignored by the server.
	Delete(ctx context.Context, remoteIDs []string) error

	// ReorderOne moves remoteID right after afterID, or to the top when
	// afterID is empty.
	ReorderOne(ctx context.Context, remoteID, afterID string) error

	// ReorderBatch places remoteIDs at positions [startingPosition,
	// startingPosition+len(remoteIDs)).
	ReorderBatch(ctx context.Context, startingPosition int, remoteIDs []string) error
}

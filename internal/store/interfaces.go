// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-otp-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalStore is the durable keyed collection of encrypted records.
//
// Every method is atomic: a batch either fully applies or not at all, and
// all calls on one store are serialized. The active set excludes tombstones
// (records deleted locally whose remote delete is not acknowledged yet).
type LocalStore interface {
	// FetchAll returns the active set ordered by order, then id.
	FetchAll(ctx context.Context) ([]models.Record, error)
	// FetchUnsynced returns active unsynced records ordered by order.
	FetchUnsynced(ctx context.Context) ([]models.Record, error)
	// FetchPendingDeletes returns tombstones waiting for a remote delete.
	FetchPendingDeletes(ctx context.Context) ([]models.Record, error)
	// FetchByID returns an active record or ErrRecordNotFound.
	FetchByID(ctx context.Context, id string) (models.Record, error)
	// FetchByRemoteID returns the record (active or tombstone) bound to remoteID.
	FetchByRemoteID(ctx context.Context, remoteID string) (models.Record, error)

	// Save upserts one record by id.
	Save(ctx context.Context, record models.Record) error
	// BatchSave upserts records by id in one transaction.
	BatchSave(ctx context.Context, records []models.Record) error
	// MergePulled upserts server copies, leaving alone every record that is
	// locally unsynced or tombstoned. It returns the ids it left alone.
	MergePulled(ctx context.Context, records []models.Record) ([]string, error)
	// UpdateContent replaces the payload of an active record and marks it
	// unsynced. Remote id and revision are kept.
	UpdateContent(ctx context.Context, id string, content ContentUpdate) error
	// UpdateOrders assigns new orders to the given active records.
	UpdateOrders(ctx context.Context, orders map[string]int) error
	// ApplyPushResults records server ids and revisions. A record is marked
	// synced only if it was not modified after it was read for the push; the
	// ids of records that stayed unsynced are returned.
	ApplyPushResults(ctx context.Context, marks []SyncMark) ([]string, error)

	// Delete removes a record row.
	Delete(ctx context.Context, id string) error
	// BatchDelete removes record rows in one transaction.
	BatchDelete(ctx context.Context, ids []string) error
	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error
	// MarkDeleted takes a record out of the active set and closes the gap it
	// leaves in the ordering. Records never pushed are removed outright,
	// others become tombstones. The record as it was before is returned.
	MarkDeleted(ctx context.Context, id string) (models.Record, error)
	// Restore puts a record back into the active set at its order, shifting
	// records at or after that order down by one.
	Restore(ctx context.Context, record models.Record) error

	// Count returns the size of the active set.
	Count(ctx context.Context) (int, error)
	// MaxOrder returns the largest order in the active set, -1 if empty.
	MaxOrder(ctx context.Context) (int, error)

	// Cursor returns the persisted pull cursor, empty if none.
	Cursor(ctx context.Context) (string, error)
	// SetCursor persists the pull cursor.
	SetCursor(ctx context.Context, cursor string) error
}

// SettingsRepository is a small named blob store next to the records.
type SettingsRepository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// ContentUpdate is a new encrypted payload for an existing record.
type ContentUpdate struct {
	Ciphertext           []byte
	KeyID                string
	ContentFormatVersion int
	ModifiedAt           time.Time
}

// SyncMark is the server's answer for one pushed record.
type SyncMark struct {
	ID       string
	RemoteID string
	Revision int64

	// ModifiedAt is the record's modification time as it was read for the
	// push.
	ModifiedAt time.Time
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-otp-keeper/models"
)

// SyncCoordinator runs sync cycles: fetch keys, pull entries, push local
// changes. At most one cycle runs at a time.
type SyncCoordinator interface {
	// Sync runs one full cycle and returns a per-record report. It returns
	// ErrSyncInProgress if another cycle is already running. Record-scoped
	// failures are reported in the SyncReport and never abort the cycle;
	// cycle-scoped failures (network, storage, cancellation) abort the
	// remainder of the cycle and leave the coordinator in StateFailed until
	// the next call.
	Sync(ctx context.Context) (models.SyncReport, error)

	// SyncAfterCurrent waits for a running cycle to finish, then runs one
	// of its own. It returns ctx.Err() if ctx ends while waiting.
	SyncAfterCurrent(ctx context.Context) (models.SyncReport, error)

	// State returns the current state and, in StateFailed, the reason.
	State() (CoordinatorState, error)
}

// OrderManager owns every mutation of the local display order. All methods
// serialize on one lock so the active set stays densely numbered from 0.
type OrderManager interface {
	// MoveTo places record id at newOrder, shifting the records in between
	// by one, in a single batch write. The returned Reorder is the remote
	// call matching the new local order; it is empty when the record has
	// not been pushed yet.
	MoveTo(ctx context.Context, id string, newOrder int) (Reorder, error)

	// AppendAtEnd assigns record the order max(order)+1 and saves it.
	AppendAtEnd(ctx context.Context, record models.Record) (models.Record, error)

	// MergePulled assigns orders to pulled records that are new locally
	// (Order < 0), appending them after the existing set in slice order,
	// keeps the current order of known records and merges all of them as
	// synced. It returns the local ids skipped because of pending local
	// changes.
	MergePulled(ctx context.Context, records []models.Record) ([]string, error)

	// Remove tombstones (or, if never pushed, deletes) record id and
	// compacts the order. It returns the record as it was before removal.
	Remove(ctx context.Context, id string) (models.Record, error)

	// Restore re-inserts a removed record at its previous order, or at the
	// end when the order is unknown.
	Restore(ctx context.Context, record models.Record) error

	// Drop deletes the rows for ids and compacts the order.
	Drop(ctx context.Context, ids []string) error

	// Normalize renumbers the active set densely from 0.
	Normalize(ctx context.Context) error

	// RemoteOrder returns the remote ids of pushed records in local order.
	RemoteOrder(ctx context.Context) ([]string, error)
}

// EntryService is the interactive, user-facing path over local entries.
// Creates and edits are local and picked up by the next sync cycle; deletes
// and moves are sent to the remote eagerly.
type EntryService interface {
	Create(ctx context.Context, entry models.Entry) (models.Record, error)
	Update(ctx context.Context, id string, entry models.Entry) error
	Get(ctx context.Context, id string) (models.Entry, error)

	// List returns every readable entry in display order. Entries whose
	// ciphertext cannot be decrypted are left out and logged.
	List(ctx context.Context) ([]models.Entry, error)

	// Delete removes the entry locally and asks the remote to delete it.
	// The local removal is rolled back only on an unrecoverable rejection;
	// while the remote is unreachable the delete stays queued.
	Delete(ctx context.Context, id string) error

	// Move reorders the entry locally and sends the matching single-entry
	// reorder. An unrecoverable rejection moves it back.
	Move(ctx context.Context, id string, newOrder int) error

	// PushOrder sends the full local order of pushed entries as batch
	// repositions.
	PushOrder(ctx context.Context) error

	// FlushOrder calls PushOrder if an earlier eager reorder could not be
	// delivered.
	FlushOrder(ctx context.Context) error
}

// SyncJob runs sync cycles in the background on a timer and on demand.
type SyncJob interface {
	// Start launches the background loop. Any previously running loop is
	// stopped first.
	Start(ctx context.Context)

	// Trigger requests a cycle as soon as possible. Triggers arriving while
	// a cycle runs are coalesced into a single follow-up cycle.
	Trigger()

	// Stop signals the background loop to exit and blocks until it has.
	Stop()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncState tells whether a local record matches what the server holds.
type SyncState int

const (
	// Unsynced records carry local changes that were not pushed yet.
	Unsynced SyncState = iota
	// Synced records are identical to the server copy at Revision.
	Synced
)

// String implements [fmt.Stringer].
func (s SyncState) String() string {
	switch s {
	case Unsynced:
		return "unsynced"
	case Synced:
		return "synced"
	default:
		return "unknown"
	}
}

// Record is one encrypted authenticator entry as persisted in the local store.
//
// The payload is opaque to the store: Ciphertext is produced by the record
// cipher under the key named by KeyID and is only readable through the key
// ring. The remaining fields are sync metadata.
type Record struct {
	// ID is the client-generated primary key. It never changes, even after
	// the record is pushed and gains a RemoteID.
	ID string `json:"id"`

	// RemoteID is the server-assigned entry identifier. Empty until the first
	// successful push.
	RemoteID string `json:"remote_id,omitempty"`

	// Ciphertext is the self-contained encrypted payload (nonce ‖ sealed data).
	Ciphertext []byte `json:"ciphertext"`

	// KeyID names the key ring entry that encrypted Ciphertext.
	KeyID string `json:"key_id"`

	// Order is the dense display position within the active set.
	Order int `json:"order"`

	// SyncState is Synced only when RemoteID is set and the server copy at
	// Revision equals this record.
	SyncState SyncState `json:"sync_state"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	// Flags is a server-owned bitmask that is round-tripped untouched.
	Flags int64 `json:"flags"`

	// ContentFormatVersion tags the plaintext encoding inside Ciphertext.
	ContentFormatVersion int `json:"content_format_version"`

	// Revision is the last server revision this record was based on. For an
	// unsynced edit of a pushed record it is the revision expected by the
	// next push.
	Revision int64 `json:"revision"`

	// Deleted marks a tombstone waiting for the server to acknowledge a
	// delete. Tombstones are outside the active set.
	Deleted bool `json:"deleted,omitempty"`
}

// IsNew reports whether the record was never accepted by the server.
func (r Record) IsNew() bool {
	return r.RemoteID == ""
}

// Valid checks the sync invariant: a synced record always has a remote id
// and a non-negative revision.
func (r Record) Valid() bool {
	if r.ID == "" || r.Revision < 0 {
		return false
	}
	if r.SyncState == Synced && r.RemoteID == "" {
		return false
	}
	return true
}

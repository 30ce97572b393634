// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RemoteRecord is one entry as returned by the server on pull.
type RemoteRecord struct {
	EntryID              string
	KeyID                string
	Revision             int64
	ContentFormatVersion int
	Content              []byte
	Flags                int64
	CreateTime           time.Time
	ModifyTime           time.Time
}

// WrappedKey is an entry encryption key as stored on the server: the raw key
// sealed under the account key.
type WrappedKey struct {
	KeyID   string
	Wrapped []byte
}

// EntryPage is one page of a paginated entry listing.
type EntryPage struct {
	Entries []RemoteRecord
	Total   int

	// NextCursor is the id to resume after. Empty when the listing is done.
	NextCursor string
}

// EntryPush is one create or update in a bulk push. An empty RemoteID means
// create.
type EntryPush struct {
	RemoteID             string
	KeyID                string
	Content              []byte
	ContentFormatVersion int

	// ExpectedRevision must equal the server's current revision for updates.
	ExpectedRevision int64
}

// PushResult is the per-item outcome of a bulk push. RemoteID and Revision
// are meaningful only when the item was accepted (Accepted reports that).
type PushResult struct {
	RemoteID string
	Revision int64

	// Conflict is set when the server holds a different revision.
	Conflict bool
	// NotFound is set when an update targets an entry the server no longer
	// has.
	NotFound bool
	// Err carries any other per-item rejection.
	Err error
}

// Accepted reports whether the server stored the item.
func (r PushResult) Accepted() bool {
	return !r.Conflict && !r.NotFound && r.Err == nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the local store. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrStorageFailure wraps every database level failure. A write that
	// fails with it left the store exactly as it was before the call.
	ErrStorageFailure = errors.New("local storage failure")

	// ErrRecordNotFound is returned when a point lookup or mutation targets
	// a record that is not in the active set.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrSettingNotFound is returned when a named setting was never stored.
	ErrSettingNotFound = errors.New("setting was not found")

	// ErrStoreLocked is returned when another process holds the database
	// file lock.
	ErrStoreLocked = errors.New("local store is locked by another process")

	// ErrInvalidRecord is returned when a record violates the sync
	// invariant (e.g. synced without a remote id).
	ErrInvalidRecord = errors.New("invalid record")
)

// Low-level database operation errors. They are always wrapped together with
// [ErrStorageFailure].
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan record row")
)

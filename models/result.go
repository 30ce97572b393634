// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SkipReason explains why a single record was not materialized or pushed.
type SkipReason int

const (
	// NotSkipped means the record was processed.
	NotSkipped SkipReason = iota
	// SkipUnknownKey means the key ring lacks the record's key.
	SkipUnknownKey
	// SkipAuthenticationFailed means the ciphertext failed tag verification.
	SkipAuthenticationFailed
	// SkipUnsupportedFormat means the content format version is unknown.
	SkipUnsupportedFormat
	// SkipLocalEditPending means a pulled update was not applied because the
	// local copy has unpushed edits.
	SkipLocalEditPending
	// SkipMalformedContent means the content decrypted but did not decode.
	SkipMalformedContent
)

// String implements [fmt.Stringer].
func (s SkipReason) String() string {
	switch s {
	case NotSkipped:
		return "none"
	case SkipUnknownKey:
		return "unknown_key"
	case SkipAuthenticationFailed:
		return "authentication_failed"
	case SkipUnsupportedFormat:
		return "unsupported_format_version"
	case SkipLocalEditPending:
		return "local_edit_pending"
	case SkipMalformedContent:
		return "malformed_content"
	default:
		return "unknown"
	}
}

// RecordResult is the outcome for one record during a sync cycle. Exactly one
// of Record (on success) or Skip (on a record-scoped failure) is meaningful.
type RecordResult struct {
	RemoteID string
	Record   *Record
	Skip     SkipReason
	Err      error
}

// Skipped reports whether the record was skipped.
func (r RecordResult) Skipped() bool {
	return r.Skip != NotSkipped
}

// SyncReport summarizes one sync cycle.
type SyncReport struct {
	// Pulled holds one result per remote record seen during the pull.
	Pulled []RecordResult

	// RemovedLocally lists local ids dropped because a full pull no longer
	// listed them.
	RemovedLocally []string

	// Pushed lists local ids that became synced.
	Pushed []string

	// Deferred lists local ids that stay unsynced until the next cycle.
	Deferred []string

	// Conflicts counts revision conflicts seen while pushing.
	Conflicts int

	// DeletedRemote lists remote ids whose pending delete was acknowledged.
	DeletedRemote []string

	// Cursor is the pull cursor persisted at the end of the cycle.
	Cursor string
}

// SkippedBy returns remote ids of pulled records skipped for reason.
func (r SyncReport) SkippedBy(reason SkipReason) []string {
	var ids []string
	for _, res := range r.Pulled {
		if res.Skip == reason {
			ids = append(ids, res.RemoteID)
		}
	}
	return ids
}

// Materialized returns how many pulled records were written locally.
func (r SyncReport) Materialized() int {
	n := 0
	for _, res := range r.Pulled {
		if !res.Skipped() && res.Record != nil {
			n++
		}
	}
	return n
}

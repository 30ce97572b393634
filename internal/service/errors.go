// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrSyncInProgress is returned by a direct Sync call while another cycle runs.
	ErrSyncInProgress = errors.New("sync cycle already in progress")

	// ErrInvalidOrder is returned for a target position outside the active set.
	ErrInvalidOrder = errors.New("invalid order position")

	// ErrInvalidEntry is returned when an entry lacks its name or secret.
	ErrInvalidEntry = errors.New("invalid entry")
)

// Reference server errors.
var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrEntryNotFound           = errors.New("entry not found")
	ErrUnknownKeyID            = errors.New("unknown authenticator key id")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
)

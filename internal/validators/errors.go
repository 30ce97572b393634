// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyEntries         = errors.New("entries list cannot be empty")
	ErrTooManyEntries       = errors.New("too many entries in one request")
	ErrEmptyEntryID         = errors.New("entry id is required")
	ErrDuplicateEntryID     = errors.New("entry id is repeated in one request")
	ErrEmptyKeyID           = errors.New("authenticator key id is required")
	ErrEmptyContent         = errors.New("content is required")
	ErrInvalidFormatVersion = errors.New("invalid content format version")
	ErrInvalidRevision      = errors.New("invalid last revision")
	ErrInvalidPosition      = errors.New("invalid starting position")
	ErrEmptyKey             = errors.New("wrapped key is required")
	ErrInvalidKeyEncoding   = errors.New("wrapped key is not base64")
)

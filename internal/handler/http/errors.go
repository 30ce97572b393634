// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"

	"github.com/MKhiriev/go-otp-keeper/internal/app"
)

// Sentinel errors of the request-guarding middlewares. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New(app.MsgEmptyAuthorizationHeader)

	// ErrMissingHash is returned when a hash key is configured and a request
	// body arrives without the HashSHA256 header.
	ErrMissingHash = errors.New(app.MsgMissingHash)

	// ErrHashMismatch is returned when the HashSHA256 header does not match
	// the request body.
	ErrHashMismatch = errors.New(app.MsgHashMismatch)
)

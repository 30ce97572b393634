// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// reference server handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies or log entries.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgErrorListingEntries is returned when the entry listing fails.
	MsgErrorListingEntries = "error listing entries"

	// MsgErrorListingKeys is returned when the key listing fails.
	MsgErrorListingKeys = "error listing keys"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgMissingHash is returned when a signed body arrives without its
	// HashSHA256 header.
	MsgMissingHash = "missing HashSHA256 header"

	// MsgHashMismatch is returned when the HashSHA256 header does not match
	// the body.
	MsgHashMismatch = "integrity check failed"

	// MsgEmptyAuthorizationHeader is returned when a protected route is
	// called without a bearer token.
	MsgEmptyAuthorizationHeader = "empty authorization header"
)

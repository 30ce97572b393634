// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrNetworkUnavailable is returned when the server could not be
	// reached or answered with a gateway/unavailable status. The whole sync
	// cycle is retried later.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrRevisionConflict is returned when the server holds a different
	// revision than the one a write expected.
	ErrRevisionConflict = errors.New("revision conflict")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInternalServerError = errors.New("internal server error")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
	// does not match the request.
	ErrMalformedResponse = errors.New("malformed server response")
)

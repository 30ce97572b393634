// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-otp-keeper/internal/adapter"
)

// isUnrecoverable reports whether the remote definitively rejected a
// request, so retrying the same request cannot succeed. Local changes made
// ahead of such a request are rolled back.
func isUnrecoverable(err error) bool {
	switch {
	case errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrForbidden):
		return true
	}
	return false
}

// isGone reports whether the remote no longer holds the targeted entry.
func isGone(err error) bool {
	return errors.Is(err, adapter.ErrNotFound)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a bearer token used to authenticate against the entry API.
//
// SignedString holds the compact form sent in the Authorization header.
// Subject and ExpiresAt are copies of the registered claims.
type Token struct {
	*jwt.Token `json:"-"`

	SignedString string    `json:"-"`
	Subject      string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}

// Expired reports whether the token carries an expiry that is not after now.
// Tokens without an expiry never expire.
func (t Token) Expired(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(t.ExpiresAt)
}

// String returns the compact JWS serialization of the token.
func (t Token) String() string {
	return t.SignedString
}

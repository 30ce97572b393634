// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides helpers shared by the client and the reference
// server: context keys, HMAC body hashing, JSON response writing, the resty
// client wrapper, JWT handling and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements [fmt.Stringer].
func (c contextKey) String() string {
	return string(c)
}

// AccountIDCtxKey stores the authenticated account (token subject) in a
// request context.
var AccountIDCtxKey = contextKey("accountID")

// WithAccountID returns a copy of ctx carrying accountID.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDCtxKey, accountID)
}

// GetAccountIDFromContext retrieves the account id stored by [WithAccountID].
func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(string)
	return accountID, ok && accountID != ""
}

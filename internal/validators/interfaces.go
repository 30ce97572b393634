// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request bodies of the authenticator entry API
// before they reach the service layer.
//
// A [Validator] validates a value as a whole or, when field names are given,
// only those fields. Bulk requests validate each item with the item rules and
// report the failing index.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}

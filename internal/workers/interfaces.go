// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers groups the background workers of the client so they start
// and stop together.
package workers

import "context"

// Worker is a background loop bound to a context.
//
// Start must not block; the loop runs until ctx is done or Stop is called.
// Stop blocks until the loop has exited and is safe to call on a worker
// that was never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the sync client: local store, unlocked key ring,
// remote API client and the background sync job, under one process
// lifecycle.
package client

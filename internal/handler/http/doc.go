// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the reference REST server of the authenticator entry API.
//
// Routes live under /api/authenticator/v1 and are guarded by bearer token
// authentication and, when a hash key is configured, the HashSHA256 body
// integrity check. Tracing, access logging and gzip are applied to every
// request before it reaches the service layer.
package http

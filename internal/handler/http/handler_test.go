// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/service"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
)

const testHashKey = "hash-key"

type testServer struct {
	t       *testing.T
	handler *Handler
	router  http.Handler
	token   string
	hashKey string
}

func newTestServer(t *testing.T, hashKey string) *testServer {
	t.Helper()
	cfg := &config.ServerConfig{
		HTTPAddress:   ":0",
		PageSize:      2,
		TokenSignKey:  "sign-key",
		TokenIssuer:   "test",
		TokenDuration: time.Hour,
		HashKey:       hashKey,
		Version:       "test-version",
	}

	services, err := service.NewServices(cfg, logger.Nop())
	require.NoError(t, err)
	token, err := services.AuthService.CreateToken(t.Context(), "owner")
	require.NoError(t, err)

	h := NewHandler(services, cfg, logger.Nop())
	return &testServer{t: t, handler: h, router: h.Init(), token: token.SignedString, hashKey: hashKey}
}

// do sends body as JSON with the bearer token and, if configured, the hash
// header. A nil body sends no payload.
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(s.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if s.hashKey != "" {
			req.Header.Set(utils.HashHeader, utils.HashString(string(payload), s.hashKey))
		}
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	raw, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

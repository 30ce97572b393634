// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

const testHashKey = "testhashkey"

func newTestClient(t *testing.T, serverURL string) *HTTPRemoteClient {
	t.Helper()

	c, err := NewHTTPRemoteClient(
		config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second, Token: "opaque-token"},
		config.ClientApp{HashKey: testHashKey},
		logger.Nop(),
	)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	_, err := utils.WriteJSON(w, body, status)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func TestNewHTTPRemoteClient_InvalidAddress(t *testing.T) {
	_, err := NewHTTPRemoteClient(config.ClientAdapter{HTTPAddress: "  "}, config.ClientApp{}, logger.Nop())
	assert.Error(t, err)
}

func TestListKeys_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, keyPath, r.URL.Path)
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))

		writeJSON(t, w, http.StatusOK, models.ListKeysResponse{Keys: models.KeyList{Keys: []models.KeyResponse{
			{KeyID: "k1", Key: base64.StdEncoding.EncodeToString([]byte("wrapped-1"))},
			{KeyID: "k2", Key: base64.StdEncoding.EncodeToString([]byte("wrapped-2"))},
		}}})
	}))
	defer srv.Close()

	keys, err := newTestClient(t, srv.URL).ListKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.WrappedKey{
		{KeyID: "k1", Wrapped: []byte("wrapped-1")},
		{KeyID: "k2", Wrapped: []byte("wrapped-2")},
	}, keys)
}

func TestListKeys_BadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.ListKeysResponse{Keys: models.KeyList{Keys: []models.KeyResponse{{KeyID: "k1", Key: "!!"}}}})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).ListKeys(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCreateKey_SignsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.True(t, utils.NewHasher(testHashKey).Verify(body, r.Header.Get(utils.HashHeader)))

		var req models.CreateKeyRequest
		require.NoError(t, json.Unmarshal(body, &req))
		writeJSON(t, w, http.StatusCreated, models.CreateKeyResponse{Key: models.KeyResponse{KeyID: "k9", Key: req.Key}})
	}))
	defer srv.Close()

	key, err := newTestClient(t, srv.URL).CreateKey(context.Background(), []byte("wrapped"))
	require.NoError(t, err)
	assert.Equal(t, models.WrappedKey{KeyID: "k9", Wrapped: []byte("wrapped")}, key)
}

func TestListEntries_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, entryPath, r.URL.Path)

		switch r.URL.Query().Get("Since") {
		case "":
			writeJSON(t, w, http.StatusOK, models.ListEntriesResponse{Entries: models.EntryList{
				Entries: []models.EntryResponse{{EntryID: "e1", AuthenticatorKeyID: "k1", Revision: 2, ContentFormatVersion: 1, Content: []byte("c1"), CreateTime: 100, ModifyTime: 200}},
				Total:   2,
				LastID:  strPtr("e1"),
			}})
		case "e1":
			writeJSON(t, w, http.StatusOK, models.ListEntriesResponse{Entries: models.EntryList{
				Entries: []models.EntryResponse{{EntryID: "e2", AuthenticatorKeyID: "k1", Revision: 1, ContentFormatVersion: 1}},
				Total:   2,
				LastID:  nil,
			}})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("Since"))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	first, err := c.ListEntries(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, "e1", first.NextCursor)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, models.RemoteRecord{
		EntryID: "e1", KeyID: "k1", Revision: 2, ContentFormatVersion: 1, Content: []byte("c1"),
		CreateTime: time.Unix(100, 0).UTC(), ModifyTime: time.Unix(200, 0).UTC(),
	}, first.Entries[0])

	second, err := c.ListEntries(context.Background(), first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Entries, 1)
	assert.Empty(t, second.NextCursor)
}

func TestGetEntry_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, entryPath+"/e404", r.URL.Path)
		http.Error(w, "entry not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetEntry(context.Background(), "e404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrUpdate_PerItemResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, entryPath+"/bulk", r.URL.Path)

		var req models.BulkUpdateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Entries, 4)
		assert.Empty(t, req.Entries[0].EntryID)
		assert.Equal(t, "e2", req.Entries[1].EntryID)
		assert.Equal(t, int64(5), req.Entries[1].LastRevision)

		writeJSON(t, w, http.StatusOK, models.BulkUpdateResponse{Entries: []models.BulkEntryResult{
			{Code: models.BulkCodeOK, EntryID: "e1", Revision: 1},
			{Code: models.BulkCodeRevisionConflict},
			{Code: models.BulkCodeNotFound},
			{Code: 2999, Error: "content too large"},
		}})
	}))
	defer srv.Close()

	results, err := newTestClient(t, srv.URL).CreateOrUpdate(context.Background(), []models.EntryPush{
		{KeyID: "k1", Content: []byte("a"), ContentFormatVersion: 1},
		{RemoteID: "e2", KeyID: "k1", Content: []byte("b"), ContentFormatVersion: 1, ExpectedRevision: 5},
		{RemoteID: "e3", KeyID: "k1", Content: []byte("c"), ContentFormatVersion: 1, ExpectedRevision: 1},
		{KeyID: "k1", Content: []byte("d"), ContentFormatVersion: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Accepted())
	assert.Equal(t, "e1", results[0].RemoteID)
	assert.True(t, results[1].Conflict)
	assert.True(t, results[2].NotFound)
	assert.Error(t, results[3].Err)
	assert.False(t, results[3].Accepted())
}

func TestCreateOrUpdate_ResultCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.BulkUpdateResponse{})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CreateOrUpdate(context.Background(), []models.EntryPush{{KeyID: "k1"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDeleteAndReorder_Requests(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, r.Method+" "+r.URL.Path+" "+string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, []string{"e1", "e2"}))
	require.NoError(t, c.ReorderOne(ctx, "e1", "e2"))
	require.NoError(t, c.ReorderOne(ctx, "e1", ""))
	require.NoError(t, c.ReorderBatch(ctx, 3, []string{"e2", "e1"}))
	require.NoError(t, c.Delete(ctx, nil), "empty delete makes no request")

	assert.Equal(t, []string{
		`DELETE /api/authenticator/v1/entry/bulk {"EntryIDs":["e1","e2"]}`,
		`PUT /api/authenticator/v1/entry/e1/order {"AfterID":"e2"}`,
		`PUT /api/authenticator/v1/entry/e1/order {"AfterID":null}`,
		`PUT /api/authenticator/v1/entry/order {"StartingPosition":3,"Entries":["e2","e1"]}`,
	}, seen)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrRevisionConflict},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrNetworkUnavailable},
		{http.StatusServiceUnavailable, ErrNetworkUnavailable},
		{http.StatusGatewayTimeout, ErrNetworkUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).ListEntries(context.Background(), "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransportFailure_IsNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).ListKeys(context.Background())
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
}

func TestCancelledContext_IsNotNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv.URL).ListKeys(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNetworkUnavailable)
}

func TestExpiredToken_FailsWithoutRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	token, err := utils.GenerateJWTToken("iss", "device-1", time.Minute, "sign")
	require.NoError(t, err)

	c := newTestClient(t, srv.URL)
	c.SetToken(token.SignedString)
	assert.Equal(t, token.SignedString, c.Token())
	c.now = func() time.Time { return time.Now().Add(time.Hour) }

	_, err = c.ListKeys(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called)
}

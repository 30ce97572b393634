// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

const (
	entryPath = "/api/authenticator/v1/entry"
	keyPath   = "/api/authenticator/v1/key"
)

// HTTPRemoteClient is the REST implementation of [RemoteClient].
type HTTPRemoteClient struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	mu    sync.RWMutex
	token models.Token

	now    func() time.Time
	logger *logger.Logger
}

// NewHTTPRemoteClient builds a client for adapterCfg.HTTPAddress. Bodies are
// signed with appCfg.HashKey when set, and adapterCfg.Token (if any) becomes
// the initial bearer token.
func NewHTTPRemoteClient(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (*HTTPRemoteClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	h := &HTTPRemoteClient{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher: utils.NewHasher(appCfg.HashKey),
		now:    time.Now,
		logger: logger,
	}
	h.SetToken(adapterCfg.Token)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken stores the bearer token sent with every request. Its expiry is
// read (without verification) so an expired token fails fast with
// [ErrUnauthorized] instead of costing a round trip.
func (h *HTTPRemoteClient) SetToken(token string) {
	token = strings.TrimSpace(token)

	parsed := models.Token{SignedString: token}
	if token != "" {
		if t, err := utils.ParseUnverifiedToken(token); err == nil {
			parsed = t
		} else {
			h.logger.Warn().Err(err).Str("func", "HTTPRemoteClient.SetToken").Msg("bearer token is not a JWT, expiry unknown")
		}
	}

	h.mu.Lock()
	h.token = parsed
	h.mu.Unlock()
}

// Token returns the current bearer token.
func (h *HTTPRemoteClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token.SignedString
}

func (h *HTTPRemoteClient) ListKeys(ctx context.Context) ([]models.WrappedKey, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	var body models.ListKeysResponse
	resp, err := req.SetResult(&body).Get(keyPath)
	if err != nil {
		return nil, mapTransportError("list keys request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	keys := make([]models.WrappedKey, 0, len(body.Keys.Keys))
	for _, k := range body.Keys.Keys {
		wk, err := decodeKey(k)
		if err != nil {
			return nil, err
		}
		keys = append(keys, wk)
	}
	return keys, nil
}

func (h *HTTPRemoteClient) CreateKey(ctx context.Context, wrapped []byte) (models.WrappedKey, error) {
	req, err := h.jsonRequest(ctx, models.CreateKeyRequest{Key: base64.StdEncoding.EncodeToString(wrapped)})
	if err != nil {
		return models.WrappedKey{}, err
	}

	var body models.CreateKeyResponse
	resp, err := req.SetResult(&body).Post(keyPath)
	if err != nil {
		return models.WrappedKey{}, mapTransportError("create key request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.WrappedKey{}, err
	}

	return decodeKey(body.Key)
}

func decodeKey(k models.KeyResponse) (models.WrappedKey, error) {
	if k.KeyID == "" {
		return models.WrappedKey{}, fmt.Errorf("%w: key without id", ErrMalformedResponse)
	}
	wrapped, err := base64.StdEncoding.DecodeString(k.Key)
	if err != nil {
		return models.WrappedKey{}, fmt.Errorf("%w: key %s: %w", ErrMalformedResponse, k.KeyID, err)
	}
	return models.WrappedKey{KeyID: k.KeyID, Wrapped: wrapped}, nil
}

func (h *HTTPRemoteClient) ListEntries(ctx context.Context, since string) (models.EntryPage, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.EntryPage{}, err
	}
	if since != "" {
		req.SetQueryParam("Since", since)
	}

	var body models.ListEntriesResponse
	resp, err := req.SetResult(&body).Get(entryPath)
	if err != nil {
		return models.EntryPage{}, mapTransportError("list entries request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntryPage{}, err
	}

	page := models.EntryPage{
		Entries: make([]models.RemoteRecord, 0, len(body.Entries.Entries)),
		Total:   body.Entries.Total,
	}
	for _, e := range body.Entries.Entries {
		page.Entries = append(page.Entries, toRemoteRecord(e))
	}
	if body.Entries.LastID != nil && len(page.Entries) > 0 {
		page.NextCursor = *body.Entries.LastID
	}

	return page, nil
}

func (h *HTTPRemoteClient) GetEntry(ctx context.Context, remoteID string) (models.RemoteRecord, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.RemoteRecord{}, err
	}

	var body models.GetEntryResponse
	resp, err := req.
		SetPathParam("id", remoteID).
		SetResult(&body).
		Get(entryPath + "/{id}")
	if err != nil {
		return models.RemoteRecord{}, mapTransportError("get entry request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	return toRemoteRecord(body.Entry), nil
}

func toRemoteRecord(e models.EntryResponse) models.RemoteRecord {
	return models.RemoteRecord{
		EntryID:              e.EntryID,
		KeyID:                e.AuthenticatorKeyID,
		Revision:             e.Revision,
		ContentFormatVersion: e.ContentFormatVersion,
		Content:              e.Content,
		Flags:                e.Flags,
		CreateTime:           time.Unix(e.CreateTime, 0).UTC(),
		ModifyTime:           time.Unix(e.ModifyTime, 0).UTC(),
	}
}

func (h *HTTPRemoteClient) CreateOrUpdate(ctx context.Context, entries []models.EntryPush) ([]models.PushResult, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	payload := models.BulkUpdateRequest{Entries: make([]models.BulkEntryRequest, 0, len(entries))}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, models.BulkEntryRequest{
			EntryID:              e.RemoteID,
			AuthenticatorKeyID:   e.KeyID,
			Content:              e.Content,
			ContentFormatVersion: e.ContentFormatVersion,
			LastRevision:         e.ExpectedRevision,
		})
	}

	req, err := h.jsonRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	var body models.BulkUpdateResponse
	resp, err := req.SetResult(&body).Put(entryPath + "/bulk")
	if err != nil {
		return nil, mapTransportError("bulk update request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if len(body.Entries) != len(entries) {
		return nil, fmt.Errorf("%w: %d results for %d entries", ErrMalformedResponse, len(body.Entries), len(entries))
	}

	results := make([]models.PushResult, 0, len(entries))
	for i, r := range body.Entries {
		switch r.Code {
		case models.BulkCodeOK:
			if r.EntryID == "" {
				return nil, fmt.Errorf("%w: accepted item %d without entry id", ErrMalformedResponse, i)
			}
			results = append(results, models.PushResult{RemoteID: r.EntryID, Revision: r.Revision})
		case models.BulkCodeRevisionConflict:
			results = append(results, models.PushResult{Conflict: true})
		case models.BulkCodeNotFound:
			results = append(results, models.PushResult{NotFound: true})
		default:
			results = append(results, models.PushResult{Err: fmt.Errorf("item %d rejected with code %d: %s", i, r.Code, r.Error)})
		}
	}

	return results, nil
}

func (h *HTTPRemoteClient) Delete(ctx context.Context, remoteIDs []string) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	req, err := h.jsonRequest(ctx, models.BulkDeleteRequest{EntryIDs: remoteIDs})
	if err != nil {
		return err
	}

	resp, err := req.Delete(entryPath + "/bulk")
	if err != nil {
		return mapTransportError("bulk delete request", err)
	}
	return mapHTTPError(resp)
}

func (h *HTTPRemoteClient) ReorderOne(ctx context.Context, remoteID, afterID string) error {
	body := models.ReorderOneRequest{}
	if afterID != "" {
		body.AfterID = &afterID
	}

	req, err := h.jsonRequest(ctx, body)
	if err != nil {
		return err
	}

	resp, err := req.SetPathParam("id", remoteID).Put(entryPath + "/{id}/order")
	if err != nil {
		return mapTransportError("reorder entry request", err)
	}
	return mapHTTPError(resp)
}

func (h *HTTPRemoteClient) ReorderBatch(ctx context.Context, startingPosition int, remoteIDs []string) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	req, err := h.jsonRequest(ctx, models.ReorderBatchRequest{StartingPosition: startingPosition, Entries: remoteIDs})
	if err != nil {
		return err
	}

	resp, err := req.Put(entryPath + "/order")
	if err != nil {
		return mapTransportError("reorder entries request", err)
	}
	return mapHTTPError(resp)
}

// authedRequest starts a request with the bearer token attached.
func (h *HTTPRemoteClient) authedRequest(ctx context.Context) (*resty.Request, error) {
	h.mu.RLock()
	token := h.token
	h.mu.RUnlock()

	if token.Expired(h.now()) {
		return nil, fmt.Errorf("%w: bearer token expired at %s", ErrUnauthorized, token.ExpiresAt.Format(time.RFC3339))
	}

	req := h.client.R().SetContext(ctx)
	if token.SignedString != "" {
		req.SetAuthToken(token.SignedString)
	}
	return req, nil
}

// jsonRequest marshals body once so the HashSHA256 header covers exactly the
// bytes sent.
func (h *HTTPRemoteClient) jsonRequest(ctx context.Context, body any) (*resty.Request, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req.SetHeader("Content-Type", "application/json").SetBody(payload)
	if h.hasher.Enabled() {
		req.SetHeader(utils.HashHeader, h.hasher.SumHex(payload))
	}
	return req, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

// vaultService keeps one account's keys and entries in memory. Every method
// runs under one lock, so a bulk request is applied atomically.
type vaultService struct {
	mu sync.Mutex

	keys    []models.KeyResponse
	entries map[string]*models.EntryResponse

	// sorted holds entry ids in listing (id) order, display holds them in
	// display order.
	sorted  []string
	display []string

	pageSize int
	ids      *utils.UUIDGenerator
	now      func() time.Time

	logger *logger.Logger
}

// NewVaultService returns an empty in-memory vault serving pages of
// cfg.PageSize entries.
func NewVaultService(cfg *config.ServerConfig, logger *logger.Logger) VaultService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &vaultService{
		entries:  make(map[string]*models.EntryResponse),
		pageSize: pageSize,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   logger,
	}
}

func (v *vaultService) ListKeys(ctx context.Context) ([]models.KeyResponse, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.keys), nil
}

func (v *vaultService) CreateKey(ctx context.Context, wrappedKey string) (models.KeyResponse, error) {
	if wrappedKey == "" {
		return models.KeyResponse{}, fmt.Errorf("%w: empty key", ErrInvalidDataProvided)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key := models.KeyResponse{KeyID: v.ids.Generate(), Key: wrappedKey}
	v.keys = append(v.keys, key)

	logger.FromContext(ctx).Info().Str("func", "vaultService.CreateKey").Str("key_id", key.KeyID).Msg("key stored")
	return key, nil
}

func (v *vaultService) ListEntries(ctx context.Context, since string) (models.EntryList, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	start := 0
	if since != "" {
		pos, found := slices.BinarySearch(v.sorted, since)
		if found {
			pos++
		}
		start = pos
	}
	end := min(start+v.pageSize, len(v.sorted))

	list := models.EntryList{
		Entries: make([]models.EntryResponse, 0, end-start),
		Total:   len(v.sorted),
	}
	for _, id := range v.sorted[start:end] {
		list.Entries = append(list.Entries, *v.entries[id])
	}
	if end < len(v.sorted) {
		lastID := v.sorted[end-1]
		list.LastID = &lastID
	}

	return list, nil
}

func (v *vaultService) GetEntry(ctx context.Context, entryID string) (models.EntryResponse, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.entries[entryID]
	if !ok {
		return models.EntryResponse{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return *entry, nil
}

func (v *vaultService) BulkUpdate(ctx context.Context, entries []models.BulkEntryRequest) ([]models.BulkEntryResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now().Unix()
	results := make([]models.BulkEntryResult, 0, len(entries))
	for _, req := range entries {
		results = append(results, v.applyLocked(req, now))
	}

	return results, nil
}

func (v *vaultService) applyLocked(req models.BulkEntryRequest, now int64) models.BulkEntryResult {
	if !v.knownKeyLocked(req.AuthenticatorKeyID) {
		return models.BulkEntryResult{Code: models.BulkCodeInvalid, Error: ErrUnknownKeyID.Error()}
	}

	if req.EntryID == "" {
		entry := &models.EntryResponse{
			EntryID:              v.ids.Generate(),
			AuthenticatorKeyID:   req.AuthenticatorKeyID,
			Revision:             1,
			ContentFormatVersion: req.ContentFormatVersion,
			Content:              slices.Clone(req.Content),
			CreateTime:           now,
			ModifyTime:           now,
		}
		v.entries[entry.EntryID] = entry
		pos, _ := slices.BinarySearch(v.sorted, entry.EntryID)
		v.sorted = slices.Insert(v.sorted, pos, entry.EntryID)
		v.display = append(v.display, entry.EntryID)

		return models.BulkEntryResult{Code: models.BulkCodeOK, EntryID: entry.EntryID, Revision: entry.Revision}
	}

	entry, ok := v.entries[req.EntryID]
	if !ok {
		return models.BulkEntryResult{Code: models.BulkCodeNotFound, EntryID: req.EntryID, Error: ErrEntryNotFound.Error()}
	}
	if entry.Revision != req.LastRevision {
		return models.BulkEntryResult{
			Code:     models.BulkCodeRevisionConflict,
			EntryID:  req.EntryID,
			Revision: entry.Revision,
			Error:    fmt.Sprintf("revision is %d, got %d", entry.Revision, req.LastRevision),
		}
	}

	entry.AuthenticatorKeyID = req.AuthenticatorKeyID
	entry.ContentFormatVersion = req.ContentFormatVersion
	entry.Content = slices.Clone(req.Content)
	entry.ModifyTime = now
	entry.Revision++

	return models.BulkEntryResult{Code: models.BulkCodeOK, EntryID: entry.EntryID, Revision: entry.Revision}
}

func (v *vaultService) knownKeyLocked(keyID string) bool {
	return slices.ContainsFunc(v.keys, func(k models.KeyResponse) bool { return k.KeyID == keyID })
}

func (v *vaultService) BulkDelete(ctx context.Context, entryIDs []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for _, id := range entryIDs {
		if _, ok := v.entries[id]; !ok {
			continue
		}
		delete(v.entries, id)
		if pos, found := slices.BinarySearch(v.sorted, id); found {
			v.sorted = slices.Delete(v.sorted, pos, pos+1)
		}
		v.display = removeID(v.display, id)
		removed++
	}

	logger.FromContext(ctx).Debug().Str("func", "vaultService.BulkDelete").
		Int("requested", len(entryIDs)).Int("removed", removed).Send()
	return nil
}

func (v *vaultService) ReorderOne(ctx context.Context, entryID string, afterID *string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.entries[entryID]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	if afterID != nil {
		if *afterID == entryID {
			return fmt.Errorf("%w: entry %s cannot follow itself", ErrInvalidDataProvided, entryID)
		}
		if _, ok := v.entries[*afterID]; !ok {
			return fmt.Errorf("%w: anchor %s", ErrEntryNotFound, *afterID)
		}
	}

	v.display = removeID(v.display, entryID)
	pos := 0
	if afterID != nil {
		pos = slices.Index(v.display, *afterID) + 1
	}
	v.display = slices.Insert(v.display, pos, entryID)

	return nil
}

func (v *vaultService) ReorderBatch(ctx context.Context, startingPosition int, entryIDs []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if startingPosition < 0 {
		return fmt.Errorf("%w: negative starting position", ErrInvalidDataProvided)
	}
	for _, id := range entryIDs {
		if _, ok := v.entries[id]; !ok {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
		}
	}

	rest := slices.DeleteFunc(slices.Clone(v.display), func(id string) bool {
		return slices.Contains(entryIDs, id)
	})
	pos := min(startingPosition, len(rest))
	v.display = slices.Insert(rest, pos, entryIDs...)

	return nil
}

// DisplayOrder returns entry ids in display order.
func (v *vaultService) DisplayOrder() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.display)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}

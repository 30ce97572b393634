// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-otp-keeper/internal/adapter"
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

type entryService struct {
	keyRing *crypto.KeyRing
	cipher  *crypto.RecordCipher
	store   store.LocalStore
	remote  adapter.RemoteClient
	orders  OrderManager
	ids     *utils.UUIDGenerator
	now     func() time.Time

	batchSize    int
	orderPending atomic.Bool
	onChange     func()
	logger       *logger.Logger
}

// NewEntryService builds the interactive entry path. onChange, if not nil,
// is called after every local create or edit so a sync can be scheduled.
func NewEntryService(deps SyncDeps, cfg config.ClientWorkers, onChange func(), logger *logger.Logger) EntryService {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > config.MaxBatchSize {
		batchSize = config.MaxBatchSize
	}

	return &entryService{
		keyRing:   deps.KeyRing,
		cipher:    deps.Cipher,
		store:     deps.Store,
		remote:    deps.Remote,
		orders:    deps.Orders,
		ids:       utils.NewUUIDGenerator(),
		now:       func() time.Time { return time.Now().UTC() },
		batchSize: batchSize,
		onChange:  onChange,
		logger:    logger,
	}
}

func (s *entryService) Create(ctx context.Context, entry models.Entry) (models.Record, error) {
	if err := validateEntry(entry); err != nil {
		return models.Record{}, err
	}

	keyID, ciphertext, version, err := s.seal(entry)
	if err != nil {
		return models.Record{}, err
	}

	now := s.now()
	rec, err := s.orders.AppendAtEnd(ctx, models.Record{
		ID:                   s.ids.Generate(),
		Ciphertext:           ciphertext,
		KeyID:                keyID,
		SyncState:            models.Unsynced,
		CreatedAt:            now,
		ModifiedAt:           now,
		ContentFormatVersion: version,
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("create entry: %w", err)
	}

	s.changed()
	return rec, nil
}

func (s *entryService) Update(ctx context.Context, id string, entry models.Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	keyID, ciphertext, version, err := s.seal(entry)
	if err != nil {
		return err
	}

	err = s.store.UpdateContent(ctx, id, store.ContentUpdate{
		Ciphertext:           ciphertext,
		KeyID:                keyID,
		ContentFormatVersion: version,
		ModifiedAt:           s.now(),
	})
	if err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}

	s.changed()
	return nil
}

func (s *entryService) seal(entry models.Entry) (string, []byte, int, error) {
	keyID, key, err := s.keyRing.Current()
	if err != nil {
		return "", nil, 0, err
	}

	ciphertext, version, err := s.cipher.EncryptEntry(entry, key)
	if err != nil {
		return "", nil, 0, err
	}
	return keyID, ciphertext, version, nil
}

func (s *entryService) Get(ctx context.Context, id string) (models.Entry, error) {
	rec, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return models.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return s.open(rec)
}

func (s *entryService) open(rec models.Record) (models.Entry, error) {
	key, err := s.keyRing.Get(rec.KeyID)
	if err != nil {
		return models.Entry{}, err
	}

	entry, err := s.cipher.DecryptEntry(rec.Ciphertext, rec.ContentFormatVersion, key)
	if err != nil {
		return models.Entry{}, err
	}
	entry.ID = rec.ID
	return entry, nil
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := make([]models.Entry, 0, len(records))
	for _, rec := range records {
		entry, err := s.open(rec)
		if err != nil {
			s.logger.Warn().Err(err).Str("func", "entryService.List").Str("id", rec.ID).Msg("unreadable entry left out")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *entryService) Delete(ctx context.Context, id string) error {
	rec, err := s.orders.Remove(ctx, id)
	if err != nil {
		return err
	}
	if rec.IsNew() {
		return nil
	}

	err = s.remote.Delete(ctx, []string{rec.RemoteID})
	switch {
	case err == nil || isGone(err):
		if err = s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("drop acknowledged tombstone %s: %w", id, err)
		}
		return nil
	case isUnrecoverable(err):
		if restoreErr := s.orders.Restore(ctx, rec); restoreErr != nil {
			return errors.Join(fmt.Errorf("remote delete %s: %w", id, err), restoreErr)
		}
		return fmt.Errorf("remote delete %s: %w", id, err)
	default:
		s.logger.Info().Err(err).Str("func", "entryService.Delete").Str("id", id).Msg("remote delete queued for next sync")
		return nil
	}
}

func (s *entryService) Move(ctx context.Context, id string, newOrder int) error {
	before, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return fmt.Errorf("move entry %s: %w", id, err)
	}

	reorder, err := s.orders.MoveTo(ctx, id, newOrder)
	if err != nil {
		return err
	}
	if reorder.Empty() {
		return nil
	}

	err = s.remote.ReorderOne(ctx, reorder.RemoteID, reorder.AfterID)
	switch {
	case err == nil:
		return nil
	case isUnrecoverable(err):
		if _, undoErr := s.orders.MoveTo(ctx, id, before.Order); undoErr != nil {
			return errors.Join(fmt.Errorf("remote reorder %s: %w", id, err), undoErr)
		}
		return fmt.Errorf("remote reorder %s: %w", id, err)
	default:
		s.orderPending.Store(true)
		s.logger.Info().Err(err).Str("func", "entryService.Move").Str("id", id).Msg("remote reorder queued for next sync")
		return nil
	}
}

func (s *entryService) PushOrder(ctx context.Context) error {
	ids, err := s.orders.RemoteOrder(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(ids); start += s.batchSize {
		if err = ctx.Err(); err != nil {
			return err
		}
		end := min(start+s.batchSize, len(ids))
		if err = s.remote.ReorderBatch(ctx, start, ids[start:end]); err != nil {
			s.orderPending.Store(true)
			return fmt.Errorf("push order at %d: %w", start, err)
		}
	}

	s.orderPending.Store(false)
	return nil
}

func (s *entryService) FlushOrder(ctx context.Context) error {
	if !s.orderPending.Load() {
		return nil
	}
	return s.PushOrder(ctx)
}

func (s *entryService) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func validateEntry(entry models.Entry) error {
	if entry.Name == "" || entry.Secret == "" {
		return fmt.Errorf("%w: name and secret are required", ErrInvalidEntry)
	}
	switch entry.Type {
	case models.TOTP, models.HOTP:
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, entry.Type)
	}
}

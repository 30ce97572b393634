// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/models"
)

// Reorder is a remote single-entry move: RemoteID now sits right after
// AfterID, or at the top when AfterID is empty.
type Reorder struct {
	RemoteID string
	AfterID  string
}

// Empty reports whether there is nothing to send.
func (r Reorder) Empty() bool {
	return r.RemoteID == ""
}

type orderManager struct {
	store  store.LocalStore
	logger *logger.Logger

	mu sync.Mutex
}

func NewOrderManager(localStore store.LocalStore, logger *logger.Logger) OrderManager {
	return &orderManager{store: localStore, logger: logger}
}

func (o *orderManager) MoveTo(ctx context.Context, id string, newOrder int) (Reorder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	records, err := o.store.FetchAll(ctx)
	if err != nil {
		return Reorder{}, fmt.Errorf("fetch records for move: %w", err)
	}
	if newOrder < 0 || newOrder >= len(records) {
		return Reorder{}, fmt.Errorf("move %s to %d of %d: %w", id, newOrder, len(records), ErrInvalidOrder)
	}

	from := slices.IndexFunc(records, func(r models.Record) bool { return r.ID == id })
	if from < 0 {
		return Reorder{}, fmt.Errorf("move %s: %w", id, store.ErrRecordNotFound)
	}

	moved := records[from]
	records = slices.Delete(records, from, from+1)
	records = slices.Insert(records, newOrder, moved)

	if err = o.store.UpdateOrders(ctx, changedOrders(records)); err != nil {
		return Reorder{}, fmt.Errorf("save orders after move: %w", err)
	}

	return remoteMove(records, newOrder), nil
}

// remoteMove derives the single-entry reorder for records[pos]. Records that
// were never pushed are invisible to the remote, so the anchor is the
// nearest pushed record above.
func remoteMove(records []models.Record, pos int) Reorder {
	moved := records[pos]
	if moved.IsNew() {
		return Reorder{}
	}

	for i := pos - 1; i >= 0; i-- {
		if !records[i].IsNew() {
			return Reorder{RemoteID: moved.RemoteID, AfterID: records[i].RemoteID}
		}
	}
	return Reorder{RemoteID: moved.RemoteID}
}

func (o *orderManager) AppendAtEnd(ctx context.Context, record models.Record) (models.Record, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	maxOrder, err := o.store.MaxOrder(ctx)
	if err != nil {
		return models.Record{}, fmt.Errorf("read max order: %w", err)
	}

	record.Order = maxOrder + 1
	if err = o.store.Save(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("save appended record: %w", err)
	}
	return record, nil
}

func (o *orderManager) MergePulled(ctx context.Context, records []models.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	next, err := o.store.MaxOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("read max order: %w", err)
	}
	next++

	merged := make([]models.Record, len(records))
	for i, rec := range records {
		if rec.Order < 0 {
			rec.Order = next
			next++
		} else {
			// a move may have landed since the caller read the record
			current, err := o.store.FetchByID(ctx, rec.ID)
			switch {
			case err == nil:
				rec.Order = current.Order
			case !errors.Is(err, store.ErrRecordNotFound):
				return nil, fmt.Errorf("refresh order of %s: %w", rec.ID, err)
			}
		}
		merged[i] = rec
	}

	skipped, err := o.store.MergePulled(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("merge pulled records: %w", err)
	}
	return skipped, nil
}

func (o *orderManager) Remove(ctx context.Context, id string) (models.Record, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rec, err := o.store.MarkDeleted(ctx, id)
	if err != nil {
		return models.Record{}, fmt.Errorf("remove %s: %w", id, err)
	}
	return rec, nil
}

func (o *orderManager) Restore(ctx context.Context, record models.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	count, err := o.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if record.Order < 0 || record.Order > count {
		record.Order = count
	}

	if err = o.store.Restore(ctx, record); err != nil {
		return fmt.Errorf("restore %s: %w", record.ID, err)
	}
	return nil
}

func (o *orderManager) Drop(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.BatchDelete(ctx, ids); err != nil {
		return fmt.Errorf("drop records: %w", err)
	}
	return o.normalizeLocked(ctx)
}

func (o *orderManager) Normalize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.normalizeLocked(ctx)
}

func (o *orderManager) normalizeLocked(ctx context.Context) error {
	records, err := o.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch records for normalize: %w", err)
	}

	changed := changedOrders(records)
	if len(changed) == 0 {
		return nil
	}

	o.logger.Debug().Str("func", "orderManager.normalizeLocked").Int("changed", len(changed)).Msg("renumbering records")
	if err = o.store.UpdateOrders(ctx, changed); err != nil {
		return fmt.Errorf("save normalized orders: %w", err)
	}
	return nil
}

func (o *orderManager) RemoteOrder(ctx context.Context) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	records, err := o.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records for remote order: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if !rec.IsNew() {
			ids = append(ids, rec.RemoteID)
		}
	}
	return ids, nil
}

// changedOrders maps the id of every record whose order differs from its
// slice index to that index.
func changedOrders(records []models.Record) map[string]int {
	changed := make(map[string]int)
	for i, rec := range records {
		if rec.Order != i {
			changed[rec.ID] = i
		}
	}
	return changed
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-otp-keeper/internal/adapter"
	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

// CoordinatorState is a step of the sync state machine.
type CoordinatorState int

const (
	StateIdle CoordinatorState = iota
	StateFetchingKeys
	StatePullingEntries
	StatePushingEntries
	StateFailed
)

func (s CoordinatorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingKeys:
		return "fetching_keys"
	case StatePullingEntries:
		return "pulling_entries"
	case StatePushingEntries:
		return "pushing_entries"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SyncDeps are the collaborators of a sync coordinator.
type SyncDeps struct {
	KeyRing    *crypto.KeyRing
	KeyChain   crypto.KeyChain
	AccountKey []byte
	Cipher     *crypto.RecordCipher
	Store      store.LocalStore
	Remote     adapter.RemoteClient
	Orders     OrderManager
}

type syncCoordinator struct {
	keyRing    *crypto.KeyRing
	keyChain   crypto.KeyChain
	accountKey []byte
	cipher     *crypto.RecordCipher
	store      store.LocalStore
	remote     adapter.RemoteClient
	orders     OrderManager
	ids        *utils.UUIDGenerator

	batchSize     int
	fullSyncEvery int
	logger        *logger.Logger

	// slot holds a token while a cycle runs
	slot   chan struct{}
	cycles int

	mu      sync.RWMutex
	state   CoordinatorState
	lastErr error
}

// NewSyncCoordinator builds a coordinator from deps. Batches are capped at
// config.MaxBatchSize records; every cfg.FullSyncEvery-th cycle, the first
// one included, pulls from an empty cursor.
func NewSyncCoordinator(deps SyncDeps, cfg config.ClientWorkers, logger *logger.Logger) SyncCoordinator {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > config.MaxBatchSize {
		batchSize = config.MaxBatchSize
	}
	fullSyncEvery := cfg.FullSyncEvery
	if fullSyncEvery <= 0 {
		fullSyncEvery = 1
	}

	return &syncCoordinator{
		keyRing:       deps.KeyRing,
		keyChain:      deps.KeyChain,
		accountKey:    deps.AccountKey,
		cipher:        deps.Cipher,
		store:         deps.Store,
		remote:        deps.Remote,
		orders:        deps.Orders,
		ids:           utils.NewUUIDGenerator(),
		batchSize:     batchSize,
		fullSyncEvery: fullSyncEvery,
		logger:        logger,
		slot:          make(chan struct{}, 1),
	}
}

func (c *syncCoordinator) State() (CoordinatorState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.lastErr
}

func (c *syncCoordinator) setState(state CoordinatorState, err error) {
	c.mu.Lock()
	c.state = state
	c.lastErr = err
	c.mu.Unlock()
}

func (c *syncCoordinator) Sync(ctx context.Context) (models.SyncReport, error) {
	select {
	case c.slot <- struct{}{}:
	default:
		return models.SyncReport{}, ErrSyncInProgress
	}
	defer func() { <-c.slot }()

	return c.cycle(ctx)
}

func (c *syncCoordinator) SyncAfterCurrent(ctx context.Context) (models.SyncReport, error) {
	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return models.SyncReport{}, ctx.Err()
	}
	defer func() { <-c.slot }()

	return c.cycle(ctx)
}

func (c *syncCoordinator) cycle(ctx context.Context) (models.SyncReport, error) {
	full := c.cycles%c.fullSyncEvery == 0
	c.cycles++

	c.setState(StateIdle, nil)
	started := time.Now()
	var report models.SyncReport

	c.setState(StateFetchingKeys, nil)
	if err := c.fetchKeys(ctx); err != nil {
		return report, c.fail("fetch keys", err)
	}

	c.setState(StatePullingEntries, nil)
	if err := c.pull(ctx, full, &report); err != nil {
		return report, c.fail("pull entries", err)
	}

	c.setState(StatePushingEntries, nil)
	if err := c.push(ctx, &report); err != nil {
		return report, c.fail("push entries", err)
	}

	c.setState(StateIdle, nil)
	c.logger.Info().
		Str("func", "syncCoordinator.Sync").
		Bool("full", full).
		Int("pulled", len(report.Pulled)).
		Int("materialized", report.Materialized()).
		Int("pushed", len(report.Pushed)).
		Int("deferred", len(report.Deferred)).
		Int("conflicts", report.Conflicts).
		Dur("took", time.Since(started)).
		Msg("sync cycle finished")

	return report, nil
}

func (c *syncCoordinator) fail(step string, err error) error {
	err = fmt.Errorf("%s: %w", step, err)
	c.setState(StateFailed, err)
	c.logger.Err(err).Str("func", "syncCoordinator.Sync").Msg("sync cycle failed")
	return err
}

// fetchKeys adds every remote key the key ring lacks. A key that fails to
// unwrap is skipped. The last listed key that is held locally becomes
// current. An empty remote and an empty ring bootstrap a fresh key.
func (c *syncCoordinator) fetchKeys(ctx context.Context) error {
	keys, err := c.remote.ListKeys(ctx)
	if err != nil {
		return err
	}

	if len(keys) == 0 && c.keyRing.Len() == 0 {
		created, err := c.bootstrapKey(ctx)
		if err != nil {
			return err
		}
		keys = []models.WrappedKey{created}
	}

	var newest string
	for _, k := range keys {
		if c.keyRing.Contains(k.KeyID) {
			newest = k.KeyID
			continue
		}

		secret, err := c.keyChain.UnwrapKey(k.Wrapped, c.accountKey)
		if err != nil {
			c.logger.Warn().Err(err).Str("func", "syncCoordinator.fetchKeys").Str("key_id", k.KeyID).Msg("cannot unwrap remote key, skipping")
			continue
		}

		if err = c.keyRing.Add(ctx, k.KeyID, secret); err != nil {
			if errors.Is(err, crypto.ErrInvalidKey) {
				c.logger.Warn().Err(err).Str("func", "syncCoordinator.fetchKeys").Str("key_id", k.KeyID).Msg("remote key rejected, skipping")
				continue
			}
			return fmt.Errorf("add key %s: %w", k.KeyID, err)
		}
		newest = k.KeyID
	}

	if newest == "" {
		return nil
	}
	if current, _, err := c.keyRing.Current(); err == nil && current == newest {
		return nil
	}
	return c.keyRing.SetCurrent(ctx, newest)
}

func (c *syncCoordinator) bootstrapKey(ctx context.Context) (models.WrappedKey, error) {
	secret, err := c.keyChain.GenerateKey()
	if err != nil {
		return models.WrappedKey{}, fmt.Errorf("generate key: %w", err)
	}

	wrapped, err := c.keyChain.WrapKey(secret, c.accountKey)
	if err != nil {
		return models.WrappedKey{}, fmt.Errorf("wrap key: %w", err)
	}

	created, err := c.remote.CreateKey(ctx, wrapped)
	if err != nil {
		return models.WrappedKey{}, fmt.Errorf("upload key: %w", err)
	}

	c.logger.Info().Str("func", "syncCoordinator.bootstrapKey").Str("key_id", created.KeyID).Msg("bootstrapped first key")
	return created, nil
}

// pull pages through the remote listing and merges every readable entry.
func (c *syncCoordinator) pull(ctx context.Context, full bool, report *models.SyncReport) error {
	cursor := ""
	if !full {
		stored, err := c.store.Cursor(ctx)
		if err != nil {
			return err
		}
		cursor = stored
	}

	var seen map[string]struct{}
	if full {
		seen = make(map[string]struct{})
	}

	since := cursor
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := c.remote.ListEntries(ctx, since)
		if err != nil {
			return err
		}

		// a fetched page is applied as a whole
		if err = c.mergePage(context.WithoutCancel(ctx), page.Entries, report); err != nil {
			return err
		}

		for _, e := range page.Entries {
			if seen != nil {
				seen[e.EntryID] = struct{}{}
			}
		}
		if n := len(page.Entries); n > 0 {
			cursor = page.Entries[n-1].EntryID
		}

		if len(page.Entries) == 0 || page.NextCursor == "" {
			break
		}
		since = page.NextCursor
	}

	if err := c.store.SetCursor(ctx, cursor); err != nil {
		return err
	}
	report.Cursor = cursor

	if full {
		return c.dropRemoved(ctx, seen, report)
	}
	return nil
}

func (c *syncCoordinator) mergePage(ctx context.Context, entries []models.RemoteRecord, report *models.SyncReport) error {
	results := make([]models.RecordResult, 0, len(entries))
	toMerge := make([]models.Record, 0, len(entries))
	resultByID := make(map[string]int, len(entries))

	for _, entry := range entries {
		res, rec, err := c.materialize(ctx, entry)
		if err != nil {
			return err
		}
		if rec != nil {
			toMerge = append(toMerge, *rec)
			resultByID[rec.ID] = len(results)
		}
		results = append(results, res)
	}

	skipped, err := c.orders.MergePulled(ctx, toMerge)
	if err != nil {
		return err
	}
	for _, id := range skipped {
		i := resultByID[id]
		results[i].Skip = models.SkipLocalEditPending
		results[i].Record = nil
	}

	report.Pulled = append(report.Pulled, results...)
	return nil
}

// materialize validates one remote entry. It returns the record to merge, or
// nil together with the skip reason when the entry cannot be applied.
func (c *syncCoordinator) materialize(ctx context.Context, entry models.RemoteRecord) (models.RecordResult, *models.Record, error) {
	res := models.RecordResult{RemoteID: entry.EntryID}
	log := c.logger.With().Str("func", "syncCoordinator.materialize").Str("remote_id", entry.EntryID).Str("key_id", entry.KeyID).Logger()

	if !crypto.SupportedContentFormat(entry.ContentFormatVersion) {
		log.Warn().Int("version", entry.ContentFormatVersion).Msg("unsupported content format, skipping")
		res.Skip, res.Err = models.SkipUnsupportedFormat, crypto.ErrUnsupportedFormatVersion
		return res, nil, nil
	}

	key, err := c.keyRing.Get(entry.KeyID)
	if err != nil {
		log.Warn().Msg("unknown key, skipping")
		res.Skip, res.Err = models.SkipUnknownKey, err
		return res, nil, nil
	}

	if _, err = c.cipher.DecryptEntry(entry.Content, entry.ContentFormatVersion, key); err != nil {
		switch {
		case errors.Is(err, crypto.ErrAuthenticationFailed):
			log.Warn().Msg("authentication failed, possible tampering or corruption, skipping")
			res.Skip = models.SkipAuthenticationFailed
		case errors.Is(err, crypto.ErrUnsupportedFormatVersion):
			res.Skip = models.SkipUnsupportedFormat
		default:
			log.Warn().Err(err).Msg("malformed content, skipping")
			res.Skip = models.SkipMalformedContent
		}
		res.Err = err
		return res, nil, nil
	}

	rec := models.Record{
		RemoteID:             entry.EntryID,
		Ciphertext:           entry.Content,
		KeyID:                entry.KeyID,
		Order:                -1,
		SyncState:            models.Synced,
		CreatedAt:            entry.CreateTime.UTC(),
		ModifiedAt:           entry.ModifyTime.UTC(),
		Flags:                entry.Flags,
		ContentFormatVersion: entry.ContentFormatVersion,
		Revision:             entry.Revision,
	}

	existing, err := c.store.FetchByRemoteID(ctx, entry.EntryID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		rec.ID = c.ids.Generate()
	case err != nil:
		return res, nil, err
	case existing.Deleted || existing.SyncState == models.Unsynced:
		res.Skip = models.SkipLocalEditPending
		return res, nil, nil
	case existing.Revision == entry.Revision:
		res.Record = &existing
		return res, nil, nil
	default:
		rec.ID = existing.ID
		rec.Order = existing.Order
	}

	res.Record = &rec
	return res, &rec, nil
}

// dropRemoved deletes synced local records that a complete listing no longer
// contains.
func (c *syncCoordinator) dropRemoved(ctx context.Context, seen map[string]struct{}, report *models.SyncReport) error {
	records, err := c.store.FetchAll(ctx)
	if err != nil {
		return err
	}

	var gone []string
	for _, rec := range records {
		if rec.SyncState != models.Synced {
			continue
		}
		if _, ok := seen[rec.RemoteID]; !ok {
			gone = append(gone, rec.ID)
		}
	}
	if len(gone) == 0 {
		return nil
	}

	if err = c.orders.Drop(ctx, gone); err != nil {
		return err
	}
	report.RemovedLocally = append(report.RemovedLocally, gone...)
	return nil
}

// push flushes pending deletes, then sends unsynced records, creates first,
// in chunks of at most batchSize.
func (c *syncCoordinator) push(ctx context.Context, report *models.SyncReport) error {
	if err := c.flushDeletes(ctx, report); err != nil {
		return err
	}

	records, err := c.store.FetchUnsynced(ctx)
	if err != nil {
		return err
	}

	var creates, updates []models.Record
	for _, rec := range records {
		if rec.IsNew() {
			creates = append(creates, rec)
		} else {
			updates = append(updates, rec)
		}
	}

	for _, part := range [][]models.Record{creates, updates} {
		for start := 0; start < len(part); start += c.batchSize {
			if err = ctx.Err(); err != nil {
				return err
			}
			end := min(start+c.batchSize, len(part))
			if err = c.pushBatch(ctx, part[start:end], report); err != nil {
				return err
			}
		}
	}
	return nil
}

// pushBatch is not interrupted by cancellation: once a batch is sent, its
// results are applied locally.
func (c *syncCoordinator) pushBatch(ctx context.Context, batch []models.Record, report *models.SyncReport) error {
	ctx = context.WithoutCancel(ctx)

	retry, err := c.sendBatch(ctx, batch, report, true)
	if err != nil {
		return err
	}
	if len(retry) == 0 {
		return nil
	}

	resolved := make([]models.Record, 0, len(retry))
	for _, rec := range retry {
		fresh, err := c.refreshRevision(ctx, rec)
		if err != nil {
			return err
		}
		resolved = append(resolved, fresh)
	}

	_, err = c.sendBatch(ctx, resolved, report, false)
	return err
}

// refreshRevision re-pulls the remote copy of a conflicting record and
// rebases the local content on its revision. A record the remote no longer
// has is re-created.
func (c *syncCoordinator) refreshRevision(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec.IsNew() {
		return rec, nil
	}

	remote, err := c.remote.GetEntry(ctx, rec.RemoteID)
	if isGone(err) {
		c.logger.Info().Str("func", "syncCoordinator.refreshRevision").Str("id", rec.ID).Msg("remote entry gone, re-creating")
		rec.RemoteID, rec.Revision = "", 0
		return rec, nil
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("re-pull %s: %w", rec.RemoteID, err)
	}

	c.logger.Debug().
		Str("func", "syncCoordinator.refreshRevision").
		Str("id", rec.ID).
		Int64("local_revision", rec.Revision).
		Int64("remote_revision", remote.Revision).
		Msg("rebasing local edit")
	rec.Revision = remote.Revision
	return rec, nil
}

// sendBatch pushes batch once and records accepted items. With allowRetry,
// conflicting and vanished items are returned for one more attempt;
// otherwise they are deferred to the next cycle.
func (c *syncCoordinator) sendBatch(ctx context.Context, batch []models.Record, report *models.SyncReport, allowRetry bool) ([]models.Record, error) {
	pushes := make([]models.EntryPush, len(batch))
	for i, rec := range batch {
		pushes[i] = models.EntryPush{
			RemoteID:             rec.RemoteID,
			KeyID:                rec.KeyID,
			Content:              rec.Ciphertext,
			ContentFormatVersion: rec.ContentFormatVersion,
			ExpectedRevision:     rec.Revision,
		}
	}

	results, err := c.remote.CreateOrUpdate(ctx, pushes)
	if err != nil {
		return nil, err
	}
	if len(results) != len(batch) {
		return nil, fmt.Errorf("%w: %d results for %d entries", adapter.ErrMalformedResponse, len(results), len(batch))
	}

	marks := make([]store.SyncMark, 0, len(batch))
	var retry []models.Record
	for i, res := range results {
		rec := batch[i]
		switch {
		case res.Accepted():
			marks = append(marks, store.SyncMark{
				ID:         rec.ID,
				RemoteID:   res.RemoteID,
				Revision:   res.Revision,
				ModifiedAt: rec.ModifiedAt,
			})
		case res.Conflict && allowRetry:
			report.Conflicts++
			retry = append(retry, rec)
		case res.NotFound && allowRetry:
			rec.RemoteID, rec.Revision = "", 0
			retry = append(retry, rec)
		default:
			if res.Conflict {
				report.Conflicts++
			}
			c.logger.Warn().Err(res.Err).
				Str("func", "syncCoordinator.sendBatch").
				Str("id", rec.ID).
				Bool("conflict", res.Conflict).
				Bool("not_found", res.NotFound).
				Msg("push rejected, deferring")
			report.Deferred = append(report.Deferred, rec.ID)
		}
	}

	stale, err := c.store.ApplyPushResults(ctx, marks)
	if err != nil {
		return nil, err
	}

	staleSet := make(map[string]struct{}, len(stale))
	for _, id := range stale {
		staleSet[id] = struct{}{}
	}
	var orphans []string
	for _, m := range marks {
		if _, ok := staleSet[m.ID]; !ok {
			report.Pushed = append(report.Pushed, m.ID)
			continue
		}
		report.Deferred = append(report.Deferred, m.ID)
		if _, err = c.store.FetchByRemoteID(ctx, m.RemoteID); errors.Is(err, store.ErrRecordNotFound) {
			orphans = append(orphans, m.RemoteID)
		}
	}

	if len(orphans) > 0 {
		// created remotely for a record deleted locally mid-push
		if err = c.remote.Delete(ctx, orphans); err != nil && !isGone(err) {
			c.logger.Warn().Err(err).Str("func", "syncCoordinator.sendBatch").Strs("remote_ids", orphans).Msg("cannot delete orphaned remote entries")
		}
	}

	return retry, nil
}

// flushDeletes sends queued tombstones to the remote and removes acknowledged
// rows. Tombstones rejected for good are restored at the end of the list.
func (c *syncCoordinator) flushDeletes(ctx context.Context, report *models.SyncReport) error {
	tombstones, err := c.store.FetchPendingDeletes(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(tombstones); start += c.batchSize {
		if err = ctx.Err(); err != nil {
			return err
		}
		end := min(start+c.batchSize, len(tombstones))
		if err = c.flushDeleteChunk(context.WithoutCancel(ctx), tombstones[start:end], report); err != nil {
			return err
		}
	}
	return nil
}

func (c *syncCoordinator) flushDeleteChunk(ctx context.Context, chunk []models.Record, report *models.SyncReport) error {
	ids := make([]string, len(chunk))
	remoteIDs := make([]string, len(chunk))
	for i, rec := range chunk {
		ids[i], remoteIDs[i] = rec.ID, rec.RemoteID
	}

	err := c.remote.Delete(ctx, remoteIDs)
	switch {
	case err == nil || isGone(err):
		if err = c.store.BatchDelete(ctx, ids); err != nil {
			return err
		}
		report.DeletedRemote = append(report.DeletedRemote, remoteIDs...)
	case isUnrecoverable(err):
		c.logger.Warn().Err(err).Str("func", "syncCoordinator.flushDeletes").Strs("ids", ids).Msg("delete rejected, restoring records")
		for _, rec := range chunk {
			rec.Order = -1
			if err = c.orders.Restore(ctx, rec); err != nil {
				return err
			}
		}
	default:
		return err
	}
	return nil
}

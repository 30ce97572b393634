// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/models"
)

const cursorSettingName = "sync.cursor"

type recordStore struct {
	*DB
	settings *settingsRepository
	logger   *logger.Logger
}

// NewLocalStore returns the SQLite backed [LocalStore].
func NewLocalStore(db *DB, logger *logger.Logger) LocalStore {
	return &recordStore{
		DB:       db,
		settings: &settingsRepository{DB: db, logger: logger},
		logger:   logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec                   models.Record
		syncState             int
		createdAt, modifiedAt int64
	)

	err := row.Scan(
		&rec.ID,
		&rec.RemoteID,
		&rec.Ciphertext,
		&rec.KeyID,
		&rec.Order,
		&syncState,
		&createdAt,
		&modifiedAt,
		&rec.Flags,
		&rec.ContentFormatVersion,
		&rec.Revision,
		&rec.Deleted,
	)
	if err != nil {
		return models.Record{}, err
	}

	rec.SyncState = models.SyncState(syncState)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.ModifiedAt = time.Unix(0, modifiedAt).UTC()
	return rec, nil
}

// queryRecords runs a SELECT built by one of the build*Query helpers.
func queryRecords(ctx context.Context, q querier, query string, args []any, buildErr error) ([]models.Record, error) {
	if buildErr != nil {
		return nil, storageErr(ErrBuildingSQLQuery, buildErr)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, storageErr(ErrScanningRow, scanErr)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr(ErrScanningRow, err)
	}

	return records, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *recordStore) FetchAll(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	err := s.read(ctx, "recordStore.FetchAll", func(ctx context.Context) (err error) {
		query, args, buildErr := buildSelectActiveRecordsQuery()
		records, err = queryRecords(ctx, s.DB.DB, query, args, buildErr)
		return err
	})
	return records, err
}

func (s *recordStore) FetchUnsynced(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	err := s.read(ctx, "recordStore.FetchUnsynced", func(ctx context.Context) (err error) {
		query, args, buildErr := buildSelectUnsyncedRecordsQuery()
		records, err = queryRecords(ctx, s.DB.DB, query, args, buildErr)
		return err
	})
	return records, err
}

func (s *recordStore) FetchPendingDeletes(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	err := s.read(ctx, "recordStore.FetchPendingDeletes", func(ctx context.Context) (err error) {
		query, args, buildErr := buildSelectPendingDeletesQuery()
		records, err = queryRecords(ctx, s.DB.DB, query, args, buildErr)
		return err
	})
	return records, err
}

func (s *recordStore) FetchByID(ctx context.Context, id string) (models.Record, error) {
	var rec models.Record
	err := s.read(ctx, "recordStore.FetchByID", func(ctx context.Context) error {
		query, args, buildErr := buildSelectRecordByIDQuery(id)
		records, err := queryRecords(ctx, s.DB.DB, query, args, buildErr)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("id %s: %w", id, ErrRecordNotFound)
		}
		rec = records[0]
		return nil
	})
	return rec, err
}

func (s *recordStore) FetchByRemoteID(ctx context.Context, remoteID string) (models.Record, error) {
	var rec models.Record
	err := s.read(ctx, "recordStore.FetchByRemoteID", func(ctx context.Context) error {
		query, args, buildErr := buildSelectRecordByRemoteIDQuery(remoteID)
		records, err := queryRecords(ctx, s.DB.DB, query, args, buildErr)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("remote id %s: %w", remoteID, ErrRecordNotFound)
		}
		rec = records[0]
		return nil
	})
	return rec, err
}

func (s *recordStore) Save(ctx context.Context, record models.Record) error {
	return s.BatchSave(ctx, []models.Record{record})
}

func (s *recordStore) BatchSave(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if !rec.Valid() {
			return fmt.Errorf("record %q: %w", rec.ID, ErrInvalidRecord)
		}
	}

	return s.inTx(ctx, "recordStore.BatchSave", func(tx *sql.Tx) error {
		for _, rec := range records {
			if err := upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(ctx context.Context, tx querier, rec models.Record) error {
	_, err := tx.ExecContext(ctx, upsertRecord,
		rec.ID,
		rec.RemoteID,
		rec.Ciphertext,
		rec.KeyID,
		rec.Order,
		int(rec.SyncState),
		rec.CreatedAt.UnixNano(),
		rec.ModifiedAt.UnixNano(),
		rec.Flags,
		rec.ContentFormatVersion,
		rec.Revision,
		rec.Deleted,
	)
	if err != nil {
		return storageErr(ErrExecutingStatement, fmt.Errorf("upsert %s: %w", rec.ID, err))
	}
	return nil
}

func (s *recordStore) MergePulled(ctx context.Context, records []models.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	for _, rec := range records {
		if !rec.Valid() || rec.SyncState != models.Synced {
			return nil, fmt.Errorf("pulled record %q: %w", rec.ID, ErrInvalidRecord)
		}
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	var kept []string
	err := s.inTx(ctx, "recordStore.MergePulled", func(tx *sql.Tx) error {
		kept = kept[:0]

		query, args, buildErr := buildSelectRecordsByIDsQuery(ids)
		existing, err := queryRecords(ctx, tx, query, args, buildErr)
		if err != nil {
			return err
		}

		pending := make(map[string]struct{}, len(existing))
		for _, rec := range existing {
			if rec.SyncState == models.Unsynced || rec.Deleted {
				pending[rec.ID] = struct{}{}
			}
		}

		for _, rec := range records {
			if _, ok := pending[rec.ID]; ok {
				kept = append(kept, rec.ID)
				continue
			}
			if err = upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *recordStore) UpdateContent(ctx context.Context, id string, content ContentUpdate) error {
	return s.inTx(ctx, "recordStore.UpdateContent", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateRecordContent,
			content.Ciphertext,
			content.KeyID,
			content.ContentFormatVersion,
			content.ModifiedAt.UnixNano(),
			id,
		)
		if err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return expectAffected(res, id)
	})
}

func (s *recordStore) UpdateOrders(ctx context.Context, orders map[string]int) error {
	if len(orders) == 0 {
		return nil
	}

	return s.inTx(ctx, "recordStore.UpdateOrders", func(tx *sql.Tx) error {
		for id, order := range orders {
			res, err := tx.ExecContext(ctx, updateRecordOrder, order, id)
			if err != nil {
				return storageErr(ErrExecutingStatement, err)
			}
			if err = expectAffected(res, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *recordStore) ApplyPushResults(ctx context.Context, marks []SyncMark) ([]string, error) {
	if len(marks) == 0 {
		return nil, nil
	}
	for _, m := range marks {
		if m.RemoteID == "" || m.Revision < 0 {
			return nil, fmt.Errorf("push result for %q: %w", m.ID, ErrInvalidRecord)
		}
	}

	var stale []string
	err := s.inTx(ctx, "recordStore.ApplyPushResults", func(tx *sql.Tx) error {
		stale = stale[:0]

		for _, m := range marks {
			var (
				syncState  int
				modifiedAt int64
				deleted    bool
			)
			err := tx.QueryRowContext(ctx, selectSyncStateAndModifiedAt, m.ID).Scan(&syncState, &modifiedAt, &deleted)
			if errors.Is(err, sql.ErrNoRows) {
				// deleted locally while the push was in flight
				stale = append(stale, m.ID)
				continue
			}
			if err != nil {
				return storageErr(ErrScanningRow, err)
			}

			if deleted || modifiedAt != m.ModifiedAt.UnixNano() {
				stale = append(stale, m.ID)
			}

			if _, err = tx.ExecContext(ctx, updatePushResult, m.RemoteID, m.Revision, m.ModifiedAt.UnixNano(), m.ID); err != nil {
				return storageErr(ErrExecutingStatement, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stale, nil
}

func (s *recordStore) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, "recordStore.Delete", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteRecord, id); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
}

func (s *recordStore) BatchDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := buildDeleteRecordsQuery(ids)
	if err != nil {
		return storageErr(ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "recordStore.BatchDelete", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
}

func (s *recordStore) DeleteAll(ctx context.Context) error {
	return s.inTx(ctx, "recordStore.DeleteAll", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllRecords); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		if _, err := tx.ExecContext(ctx, deleteSetting, cursorSettingName); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
}

func (s *recordStore) MarkDeleted(ctx context.Context, id string) (models.Record, error) {
	var rec models.Record
	err := s.inTx(ctx, "recordStore.MarkDeleted", func(tx *sql.Tx) error {
		query, args, buildErr := buildSelectRecordByIDQuery(id)
		records, err := queryRecords(ctx, tx, query, args, buildErr)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("id %s: %w", id, ErrRecordNotFound)
		}
		rec = records[0]

		stmt := markRecordDeleted
		if rec.IsNew() {
			stmt = deleteRecord
		}
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		if _, err = tx.ExecContext(ctx, closeOrderGap, rec.Order); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

func (s *recordStore) Restore(ctx context.Context, record models.Record) error {
	if !record.Valid() {
		return fmt.Errorf("record %q: %w", record.ID, ErrInvalidRecord)
	}
	record.Deleted = false

	return s.inTx(ctx, "recordStore.Restore", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, openOrderGap, record.Order); err != nil {
			return storageErr(ErrExecutingStatement, err)
		}
		return upsert(ctx, tx, record)
	})
}

func (s *recordStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.read(ctx, "recordStore.Count", func(ctx context.Context) error {
		if err := s.DB.QueryRowContext(ctx, countActiveRecords).Scan(&n); err != nil {
			return storageErr(ErrExecutingQuery, err)
		}
		return nil
	})
	return n, err
}

func (s *recordStore) MaxOrder(ctx context.Context) (int, error) {
	var n int
	err := s.read(ctx, "recordStore.MaxOrder", func(ctx context.Context) error {
		if err := s.DB.QueryRowContext(ctx, maxActiveOrder).Scan(&n); err != nil {
			return storageErr(ErrExecutingQuery, err)
		}
		return nil
	})
	return n, err
}

func (s *recordStore) Cursor(ctx context.Context) (string, error) {
	value, err := s.settings.Get(ctx, cursorSettingName)
	if errors.Is(err, ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (s *recordStore) SetCursor(ctx context.Context, cursor string) error {
	if cursor == "" {
		return s.settings.Delete(ctx, cursorSettingName)
	}
	return s.settings.Set(ctx, cursorSettingName, []byte(cursor))
}

func expectAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(ErrExecutingStatement, err)
	}
	if n == 0 {
		return fmt.Errorf("id %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

var recordColumns = []string{
	"id",
	"remote_id",
	"ciphertext",
	"key_id",
	"sort_order",
	"sync_state",
	"created_at",
	"modified_at",
	"flags",
	"content_format_version",
	"revision",
	"deleted",
}

const (
	upsertRecord = `
		INSERT INTO records (
			id,
			remote_id,
			ciphertext,
			key_id,
			sort_order,
			sync_state,
			created_at,
			modified_at,
			flags,
			content_format_version,
			revision,
			deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			ciphertext = excluded.ciphertext,
			key_id = excluded.key_id,
			sort_order = excluded.sort_order,
			sync_state = excluded.sync_state,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at,
			flags = excluded.flags,
			content_format_version = excluded.content_format_version,
			revision = excluded.revision,
			deleted = excluded.deleted;`

	updateRecordContent = `
		UPDATE records
		SET ciphertext = ?, key_id = ?, content_format_version = ?, modified_at = ?, sync_state = 0
		WHERE id = ? AND deleted = 0;`

	updateRecordOrder = `UPDATE records SET sort_order = ? WHERE id = ? AND deleted = 0;`

	selectSyncStateAndModifiedAt = `SELECT sync_state, modified_at, deleted FROM records WHERE id = ?;`

	updatePushResult = `
		UPDATE records
		SET remote_id = ?, revision = ?, sync_state = CASE WHEN modified_at = ? THEN 1 ELSE sync_state END
		WHERE id = ?;`

	markRecordDeleted = `UPDATE records SET deleted = 1, sort_order = -1 WHERE id = ?;`

	deleteRecord = `DELETE FROM records WHERE id = ?;`

	deleteAllRecords = `DELETE FROM records;`

	closeOrderGap = `UPDATE records SET sort_order = sort_order - 1 WHERE deleted = 0 AND sort_order > ?;`

	openOrderGap = `UPDATE records SET sort_order = sort_order + 1 WHERE deleted = 0 AND sort_order >= ?;`

	countActiveRecords = `SELECT COUNT(*) FROM records WHERE deleted = 0;`

	maxActiveOrder = `SELECT COALESCE(MAX(sort_order), -1) FROM records WHERE deleted = 0;`

	selectSetting = `SELECT value FROM settings WHERE name = ?;`

	upsertSetting = `
		INSERT INTO settings (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value;`

	deleteSetting = `DELETE FROM settings WHERE name = ?;`
)

// buildSelectRecordsQuery selects records matching where, ordered by display
// order with ties broken by id.
func buildSelectRecordsQuery(where sq.Sqlizer) (string, []any, error) {
	return sq.Select(recordColumns...).
		From("records").
		Where(where).
		OrderBy("sort_order", "id").
		ToSql()
}

func buildSelectActiveRecordsQuery() (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"deleted": false})
}

func buildSelectUnsyncedRecordsQuery() (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"deleted": false, "sync_state": 0})
}

func buildSelectPendingDeletesQuery() (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"deleted": true})
}

func buildSelectRecordByIDQuery(id string) (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"id": id, "deleted": false})
}

func buildSelectRecordByRemoteIDQuery(remoteID string) (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"remote_id": remoteID})
}

// buildSelectRecordsByIDsQuery selects records (tombstones included) whose
// id is in ids.
func buildSelectRecordsByIDsQuery(ids []string) (string, []any, error) {
	return buildSelectRecordsQuery(sq.Eq{"id": ids})
}

func buildDeleteRecordsQuery(ids []string) (string, []any, error) {
	return sq.Delete("records").
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/models"
)

func newTestVault(t *testing.T, pageSize int) (*vaultService, string) {
	t.Helper()
	v := NewVaultService(&config.ServerConfig{PageSize: pageSize}, logger.Nop()).(*vaultService)
	key, err := v.CreateKey(context.Background(), "d3JhcHBlZA==")
	require.NoError(t, err)
	return v, key.KeyID
}

func createEntries(t *testing.T, v VaultService, keyID string, n int) []string {
	t.Helper()
	reqs := make([]models.BulkEntryRequest, n)
	for i := range reqs {
		reqs[i] = models.BulkEntryRequest{
			AuthenticatorKeyID:   keyID,
			Content:              []byte(fmt.Sprintf("c%d", i)),
			ContentFormatVersion: 1,
		}
	}
	results, err := v.BulkUpdate(context.Background(), reqs)
	require.NoError(t, err)

	ids := make([]string, n)
	for i, r := range results {
		require.Equal(t, models.BulkCodeOK, r.Code)
		ids[i] = r.EntryID
	}
	return ids
}

func TestVault_Keys(t *testing.T) {
	v, first := newTestVault(t, 10)
	ctx := context.Background()

	second, err := v.CreateKey(ctx, "c2Vjb25k")
	require.NoError(t, err)
	assert.NotEqual(t, first, second.KeyID)

	keys, err := v.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, first, keys[0].KeyID)
	assert.Equal(t, second.KeyID, keys[1].KeyID)

	_, err = v.CreateKey(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestVault_CreateUpdateConflict(t *testing.T) {
	v, keyID := newTestVault(t, 10)
	ctx := context.Background()

	id := createEntries(t, v, keyID, 1)[0]
	entry, err := v.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Revision)
	assert.Equal(t, []byte("c0"), entry.Content)

	results, err := v.BulkUpdate(ctx, []models.BulkEntryRequest{
		{EntryID: id, AuthenticatorKeyID: keyID, Content: []byte("v2"), ContentFormatVersion: 1, LastRevision: 1},
		{EntryID: id, AuthenticatorKeyID: keyID, Content: []byte("stale"), ContentFormatVersion: 1, LastRevision: 1},
		{EntryID: "gone", AuthenticatorKeyID: keyID, Content: []byte("x"), ContentFormatVersion: 1},
		{AuthenticatorKeyID: "no-such-key", Content: []byte("x"), ContentFormatVersion: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, models.BulkCodeOK, results[0].Code)
	assert.Equal(t, int64(2), results[0].Revision)
	assert.Equal(t, models.BulkCodeRevisionConflict, results[1].Code)
	assert.Equal(t, int64(2), results[1].Revision)
	assert.Equal(t, models.BulkCodeNotFound, results[2].Code)
	assert.Equal(t, models.BulkCodeInvalid, results[3].Code)

	entry, err = v.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), entry.Content)

	_, err = v.GetEntry(ctx, "gone")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestVault_ListEntriesPaging(t *testing.T) {
	v, keyID := newTestVault(t, 3)
	ctx := context.Background()
	created := createEntries(t, v, keyID, 7)

	var got []string
	since := ""
	pages := 0
	for {
		page, err := v.ListEntries(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		pages++
		for _, e := range page.Entries {
			got = append(got, e.EntryID)
		}
		if page.LastID == nil {
			break
		}
		since = *page.LastID
	}

	assert.Equal(t, 3, pages)
	assert.ElementsMatch(t, created, got)
	assert.IsNonDecreasing(t, got)

	// a cursor past the end yields an empty final page
	page, err := v.ListEntries(ctx, got[len(got)-1])
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Nil(t, page.LastID)
}

func TestVault_ListEntriesAfterDeletedCursor(t *testing.T) {
	v, keyID := newTestVault(t, 10)
	ctx := context.Background()
	ids := createEntries(t, v, keyID, 3)

	require.NoError(t, v.BulkDelete(ctx, []string{ids[1]}))

	page, err := v.ListEntries(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, ids[2], page.Entries[0].EntryID)
}

func TestVault_BulkDelete(t *testing.T) {
	v, keyID := newTestVault(t, 10)
	ctx := context.Background()
	ids := createEntries(t, v, keyID, 3)

	require.NoError(t, v.BulkDelete(ctx, []string{ids[0], "unknown"}))

	page, err := v.ListEntries(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{ids[1], ids[2]}, v.DisplayOrder())
}

func TestVault_ReorderOne(t *testing.T) {
	v, keyID := newTestVault(t, 10)
	ctx := context.Background()
	ids := createEntries(t, v, keyID, 3)
	a, b, c := ids[0], ids[1], ids[2]

	require.NoError(t, v.ReorderOne(ctx, c, nil))
	assert.Equal(t, []string{c, a, b}, v.DisplayOrder())

	require.NoError(t, v.ReorderOne(ctx, c, &b))
	assert.Equal(t, []string{a, b, c}, v.DisplayOrder())

	require.NoError(t, v.ReorderOne(ctx, a, &b))
	assert.Equal(t, []string{b, a, c}, v.DisplayOrder())

	assert.ErrorIs(t, v.ReorderOne(ctx, "missing", nil), ErrEntryNotFound)
	missing := "missing"
	assert.ErrorIs(t, v.ReorderOne(ctx, a, &missing), ErrEntryNotFound)
	assert.ErrorIs(t, v.ReorderOne(ctx, a, &a), ErrInvalidDataProvided)
}

func TestVault_ReorderBatch(t *testing.T) {
	v, keyID := newTestVault(t, 10)
	ctx := context.Background()
	ids := createEntries(t, v, keyID, 4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	require.NoError(t, v.ReorderBatch(ctx, 0, []string{d, c}))
	assert.Equal(t, []string{d, c, a, b}, v.DisplayOrder())

	require.NoError(t, v.ReorderBatch(ctx, 2, []string{b, a}))
	assert.Equal(t, []string{d, c, b, a}, v.DisplayOrder())

	// start past the end appends
	require.NoError(t, v.ReorderBatch(ctx, 10, []string{d}))
	assert.Equal(t, []string{c, b, a, d}, v.DisplayOrder())

	assert.ErrorIs(t, v.ReorderBatch(ctx, 0, []string{a, "missing"}), ErrEntryNotFound)
	assert.Equal(t, []string{c, b, a, d}, v.DisplayOrder(), "failed batch changes nothing")
}

func TestVaultValidation_RejectsMalformed(t *testing.T) {
	inner, keyID := newTestVault(t, 10)
	v := NewVaultValidationService().Wrap(inner)
	ctx := context.Background()

	_, err := v.BulkUpdate(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = v.BulkUpdate(ctx, []models.BulkEntryRequest{{AuthenticatorKeyID: keyID}})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	tooMany := make([]string, config.MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("e%d", i)
	}
	assert.ErrorIs(t, v.BulkDelete(ctx, tooMany), ErrInvalidDataProvided)
	assert.ErrorIs(t, v.ReorderBatch(ctx, -1, []string{"a"}), ErrInvalidDataProvided)

	empty := ""
	assert.ErrorIs(t, v.ReorderOne(ctx, "a", &empty), ErrInvalidDataProvided)

	_, err = v.GetEntry(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = v.CreateKey(ctx, "***")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	// well formed requests pass through
	ids := createEntries(t, v, keyID, 2)
	require.NoError(t, v.ReorderOne(ctx, ids[1], nil))
	assert.Equal(t, []string{ids[1], ids[0]}, inner.DisplayOrder())
}

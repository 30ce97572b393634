// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/mock"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/models"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv is a real in-memory store and key ring with a mocked remote.
type testEnv struct {
	ctx        context.Context
	store      store.LocalStore
	settings   store.SettingsRepository
	keyRing    *crypto.KeyRing
	keyChain   crypto.KeyChain
	cipher     *crypto.RecordCipher
	accountKey []byte
	remote     *mock.MockRemoteClient
	orders     OrderManager
}

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, crypto.KeySize)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	storages, err := store.NewClientStorages(ctx, config.ClientStorage{DB: config.ClientDB{DSN: ":memory:"}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	keyRing := crypto.NewKeyRing(crypto.NewMemoryStorage())
	require.NoError(t, keyRing.Add(ctx, "k1", testKey(1)))
	require.NoError(t, keyRing.SetCurrent(ctx, "k1"))

	return &testEnv{
		ctx:        ctx,
		store:      storages.Records,
		settings:   storages.Settings,
		keyRing:    keyRing,
		keyChain:   crypto.NewKeyChain(),
		cipher:     crypto.NewRecordCipher(),
		accountKey: testKey(9),
		remote:     mock.NewMockRemoteClient(gomock.NewController(t)),
		orders:     NewOrderManager(storages.Records, logger.Nop()),
	}
}

func (e *testEnv) deps() SyncDeps {
	return SyncDeps{
		KeyRing:    e.keyRing,
		KeyChain:   e.keyChain,
		AccountKey: e.accountKey,
		Cipher:     e.cipher,
		Store:      e.store,
		Remote:     e.remote,
		Orders:     e.orders,
	}
}

func (e *testEnv) coordinator(cfg config.ClientWorkers) *syncCoordinator {
	return NewSyncCoordinator(e.deps(), cfg, logger.Nop()).(*syncCoordinator)
}

func (e *testEnv) seal(t *testing.T, name string, key []byte) []byte {
	t.Helper()
	ct, _, err := e.cipher.EncryptEntry(models.Entry{Name: name, Secret: "JBSWY3DPEHPK3PXP", Type: models.TOTP}, key)
	require.NoError(t, err)
	return ct
}

func (e *testEnv) remoteEntry(t *testing.T, remoteID, keyID string, key []byte, revision int64) models.RemoteRecord {
	t.Helper()
	return models.RemoteRecord{
		EntryID:              remoteID,
		KeyID:                keyID,
		Revision:             revision,
		ContentFormatVersion: crypto.CurrentContentFormatVersion,
		Content:              e.seal(t, "remote "+remoteID, key),
		CreateTime:           baseTime,
		ModifyTime:           baseTime,
	}
}

// saveLocal stores an unsynced record sealed under k1.
func (e *testEnv) saveLocal(t *testing.T, id, remoteID string, order int, revision int64) models.Record {
	t.Helper()
	rec := models.Record{
		ID:                   id,
		RemoteID:             remoteID,
		Ciphertext:           e.seal(t, "local "+id, testKey(1)),
		KeyID:                "k1",
		Order:                order,
		SyncState:            models.Unsynced,
		CreatedAt:            baseTime,
		ModifiedAt:           baseTime.Add(time.Duration(order) * time.Second),
		ContentFormatVersion: crypto.CurrentContentFormatVersion,
		Revision:             revision,
	}
	require.NoError(t, e.store.Save(e.ctx, rec))
	return rec
}

func (e *testEnv) saveSynced(t *testing.T, id, remoteID string, order int, revision int64) models.Record {
	t.Helper()
	rec := e.saveLocal(t, id, remoteID, order, revision)
	rec.SyncState = models.Synced
	require.NoError(t, e.store.Save(e.ctx, rec))
	return rec
}

func (e *testEnv) orderOf(t *testing.T) []string {
	t.Helper()
	records, err := e.store.FetchAll(e.ctx)
	require.NoError(t, err)

	ids := make([]string, len(records))
	for i, rec := range records {
		require.Equal(t, i, rec.Order, "order must be dense")
		ids[i] = rec.ID
	}
	return ids
}

func emptyPage() models.EntryPage {
	return models.EntryPage{}
}

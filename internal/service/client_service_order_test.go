// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/mock"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
	"github.com/MKhiriev/go-otp-keeper/models"
)

func TestOrderManager_MoveTo(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		newOrder int
		want     []string
		reorder  Reorder
	}{
		{name: "down", id: "a", newOrder: 2, want: []string{"b", "c", "a", "d"}, reorder: Reorder{RemoteID: "ra", AfterID: "rc"}},
		{name: "up", id: "d", newOrder: 1, want: []string{"a", "d", "b", "c"}, reorder: Reorder{RemoteID: "rd", AfterID: "ra"}},
		{name: "to top", id: "c", newOrder: 0, want: []string{"c", "a", "b", "d"}, reorder: Reorder{RemoteID: "rc"}},
		{name: "same place", id: "b", newOrder: 1, want: []string{"a", "b", "c", "d"}, reorder: Reorder{RemoteID: "rb", AfterID: "ra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for i, id := range []string{"a", "b", "c", "d"} {
				env.saveSynced(t, id, "r"+id, i, 1)
			}

			reorder, err := env.orders.MoveTo(env.ctx, tt.id, tt.newOrder)
			require.NoError(t, err)
			assert.Equal(t, tt.reorder, reorder)
			assert.Equal(t, tt.want, env.orderOf(t))
		})
	}
}

func TestOrderManager_MoveTo_SkipsUnpushedAnchors(t *testing.T) {
	env := newTestEnv(t)
	env.saveSynced(t, "a", "ra", 0, 1)
	env.saveLocal(t, "n", "", 1, 0)
	env.saveSynced(t, "b", "rb", 2, 1)

	reorder, err := env.orders.MoveTo(env.ctx, "b", 2)
	require.NoError(t, err)
	assert.Equal(t, Reorder{RemoteID: "rb", AfterID: "ra"}, reorder)

	reorder, err = env.orders.MoveTo(env.ctx, "n", 0)
	require.NoError(t, err)
	assert.True(t, reorder.Empty())
	assert.Equal(t, []string{"n", "a", "b"}, env.orderOf(t))
}

func TestOrderManager_MoveTo_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.saveLocal(t, "a", "", 0, 0)

	_, err := env.orders.MoveTo(env.ctx, "a", 1)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = env.orders.MoveTo(env.ctx, "a", -1)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = env.orders.MoveTo(env.ctx, "ghost", 0)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

// TestOrderManager_RandomMovesStayDense checks that any sequence of moves
// keeps a strict total order without duplicates.
func TestOrderManager_RandomMovesStayDense(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, id := range ids {
		env.saveLocal(t, id, "", i, 0)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		id := ids[rng.IntN(len(ids))]
		_, err := env.orders.MoveTo(env.ctx, id, rng.IntN(len(ids)))
		require.NoError(t, err)

		got := env.orderOf(t)
		assert.ElementsMatch(t, ids, got)
	}
}

func TestOrderManager_AppendAtEnd(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.orders.AppendAtEnd(env.ctx, models.Record{ID: "a", Ciphertext: []byte{1}, KeyID: "k1", ContentFormatVersion: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Order)

	rec, err = env.orders.AppendAtEnd(env.ctx, models.Record{ID: "b", Ciphertext: []byte{1}, KeyID: "k1", ContentFormatVersion: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Order)
	assert.Equal(t, []string{"a", "b"}, env.orderOf(t))
}

func TestOrderManager_MergePulled(t *testing.T) {
	env := newTestEnv(t)
	env.saveSynced(t, "a", "ra", 0, 1)
	env.saveLocal(t, "b", "rb", 1, 1)

	pulledA := env.saveSynced(t, "a", "ra", 0, 1)
	pulledA.Revision = 2
	pulledB := pulledA
	pulledB.ID, pulledB.RemoteID, pulledB.Order = "b", "rb", 1
	fresh := pulledA
	fresh.ID, fresh.RemoteID, fresh.Order = "c", "rc", -1
	fresh2 := fresh
	fresh2.ID, fresh2.RemoteID = "d", "rd"

	// a was moved after being read by the puller
	_, err := env.orders.MoveTo(env.ctx, "a", 1)
	require.NoError(t, err)

	skipped, err := env.orders.MergePulled(env.ctx, []models.Record{pulledA, pulledB, fresh, fresh2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, skipped)
	assert.Equal(t, []string{"b", "a", "c", "d"}, env.orderOf(t))

	got, err := env.store.FetchByID(env.ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Revision)
}

func TestOrderManager_RemoveRestore(t *testing.T) {
	env := newTestEnv(t)
	env.saveSynced(t, "a", "ra", 0, 1)
	env.saveSynced(t, "b", "rb", 1, 1)
	env.saveSynced(t, "c", "rc", 2, 1)

	removed, err := env.orders.Remove(env.ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, removed.Order)
	assert.Equal(t, []string{"a", "c"}, env.orderOf(t))

	require.NoError(t, env.orders.Restore(env.ctx, removed))
	assert.Equal(t, []string{"a", "b", "c"}, env.orderOf(t))

	removed, err = env.orders.Remove(env.ctx, "a")
	require.NoError(t, err)
	removed.Order = -1
	require.NoError(t, env.orders.Restore(env.ctx, removed))
	assert.Equal(t, []string{"b", "c", "a"}, env.orderOf(t))
}

func TestOrderManager_DropNormalizes(t *testing.T) {
	env := newTestEnv(t)
	for i, id := range []string{"a", "b", "c", "d"} {
		env.saveSynced(t, id, "r"+id, i, 1)
	}

	require.NoError(t, env.orders.Drop(env.ctx, []string{"b", "c"}))
	assert.Equal(t, []string{"a", "d"}, env.orderOf(t))
}

func TestOrderManager_RemoteOrder(t *testing.T) {
	env := newTestEnv(t)
	env.saveSynced(t, "a", "ra", 0, 1)
	env.saveLocal(t, "n", "", 1, 0)
	env.saveSynced(t, "b", "rb", 2, 1)

	ids, err := env.orders.RemoteOrder(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ra", "rb"}, ids)
}

func TestOrderManager_StoreErrorsPropagate(t *testing.T) {
	ctrl := gomock.NewController(t)
	localStore := mock.NewMockLocalStore(ctrl)
	orders := NewOrderManager(localStore, logger.Nop())
	storageErr := errors.Join(store.ErrStorageFailure, errors.New("disk I/O error"))

	localStore.EXPECT().FetchAll(gomock.Any()).Return(nil, storageErr)
	_, err := orders.MoveTo(t.Context(), "a", 0)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	localStore.EXPECT().FetchAll(gomock.Any()).Return([]models.Record{{ID: "a", Order: 0}, {ID: "b", Order: 1}}, nil)
	localStore.EXPECT().UpdateOrders(gomock.Any(), map[string]int{"a": 1, "b": 0}).Return(storageErr)
	_, err = orders.MoveTo(t.Context(), "a", 1)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	localStore.EXPECT().MaxOrder(gomock.Any()).Return(0, storageErr)
	_, err = orders.AppendAtEnd(t.Context(), models.Record{ID: "x"})
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	localStore.EXPECT().FetchAll(gomock.Any()).Return([]models.Record{{ID: "a", Order: 0}}, nil)
	assert.NoError(t, orders.Normalize(t.Context()))
}

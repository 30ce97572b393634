// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-otp-keeper/models"
)

func validBulkEntry() models.BulkEntryRequest {
	return models.BulkEntryRequest{
		AuthenticatorKeyID:   "k1",
		Content:              []byte("sealed"),
		ContentFormatVersion: 1,
	}
}

func TestNewEntryValidator(t *testing.T) {
	v := NewEntryValidator(50)
	require.NotNil(t, v)
	var _ Validator = v
}

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewEntryValidator(0)
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), nil), ErrUnsupportedType)
}

func TestValidate_BulkEntry(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*models.BulkEntryRequest)
		fields  []string
		wantErr error
	}{
		{name: "valid create", modify: func(*models.BulkEntryRequest) {}},
		{name: "valid update", modify: func(e *models.BulkEntryRequest) { e.EntryID = "e1"; e.LastRevision = 3 }},
		{name: "no key id", modify: func(e *models.BulkEntryRequest) { e.AuthenticatorKeyID = "" }, wantErr: ErrEmptyKeyID},
		{name: "no content", modify: func(e *models.BulkEntryRequest) { e.Content = nil }, wantErr: ErrEmptyContent},
		{name: "zero format", modify: func(e *models.BulkEntryRequest) { e.ContentFormatVersion = 0 }, wantErr: ErrInvalidFormatVersion},
		{name: "negative revision", modify: func(e *models.BulkEntryRequest) { e.LastRevision = -1 }, wantErr: ErrInvalidRevision},
		{name: "entry id required when asked", modify: func(*models.BulkEntryRequest) {}, fields: []string{FieldEntryID}, wantErr: ErrEmptyEntryID},
		{name: "unknown field", modify: func(*models.BulkEntryRequest) {}, fields: []string{"nope"}, wantErr: ErrUnknownField},
		{name: "scoped check ignores others", modify: func(e *models.BulkEntryRequest) { e.Content = nil }, fields: []string{FieldKeyID}},
	}

	v := NewEntryValidator(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validBulkEntry()
			tt.modify(&entry)

			err := v.Validate(context.Background(), entry, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			// pointers take the same path
			assert.ErrorIs(t, v.Validate(context.Background(), &entry, tt.fields...), tt.wantErr)
		})
	}
}

func TestValidate_BulkUpdate(t *testing.T) {
	v := NewEntryValidator(2)
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.BulkUpdateRequest{}), ErrEmptyEntries)

	three := models.BulkUpdateRequest{Entries: []models.BulkEntryRequest{validBulkEntry(), validBulkEntry(), validBulkEntry()}}
	assert.ErrorIs(t, v.Validate(ctx, three), ErrTooManyEntries)

	bad := validBulkEntry()
	bad.Content = nil
	err := v.Validate(ctx, &models.BulkUpdateRequest{Entries: []models.BulkEntryRequest{validBulkEntry(), bad}})
	require.ErrorIs(t, err, ErrEmptyContent)
	assert.Contains(t, err.Error(), "index 1")

	dup := validBulkEntry()
	dup.EntryID = "e1"
	assert.ErrorIs(t, v.Validate(ctx, models.BulkUpdateRequest{Entries: []models.BulkEntryRequest{dup, dup}}), ErrDuplicateEntryID)

	// several creates carry no id and are not duplicates
	assert.NoError(t, v.Validate(ctx, models.BulkUpdateRequest{Entries: []models.BulkEntryRequest{validBulkEntry(), validBulkEntry()}}))
}

func TestValidate_BulkDelete(t *testing.T) {
	v := NewEntryValidator(3)
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.BulkDeleteRequest{EntryIDs: []string{"a", "b"}}))
	assert.ErrorIs(t, v.Validate(ctx, models.BulkDeleteRequest{}), ErrEmptyEntries)
	assert.ErrorIs(t, v.Validate(ctx, models.BulkDeleteRequest{EntryIDs: []string{"a", ""}}), ErrEmptyEntryID)
	assert.ErrorIs(t, v.Validate(ctx, models.BulkDeleteRequest{EntryIDs: []string{"a", "a"}}), ErrDuplicateEntryID)
	assert.ErrorIs(t, v.Validate(ctx, &models.BulkDeleteRequest{EntryIDs: []string{"a", "b", "c", "d"}}), ErrTooManyEntries)
}

func TestValidate_ReorderBatch(t *testing.T) {
	v := NewEntryValidator(0)
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.ReorderBatchRequest{StartingPosition: 4, Entries: []string{"a"}}))
	assert.ErrorIs(t, v.Validate(ctx, models.ReorderBatchRequest{StartingPosition: -1, Entries: []string{"a"}}), ErrInvalidPosition)
	assert.ErrorIs(t, v.Validate(ctx, &models.ReorderBatchRequest{}), ErrEmptyEntries)
	assert.NoError(t, v.Validate(ctx, models.ReorderBatchRequest{StartingPosition: 2}, FieldStartingPosition))
}

func TestValidate_CreateKey(t *testing.T) {
	v := NewEntryValidator(0)
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.CreateKeyRequest{Key: "c2VhbGVk"}))
	assert.ErrorIs(t, v.Validate(ctx, models.CreateKeyRequest{}), ErrEmptyKey)
	assert.ErrorIs(t, v.Validate(ctx, &models.CreateKeyRequest{Key: "%%%"}), ErrInvalidKeyEncoding)
}

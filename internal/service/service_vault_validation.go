// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
	"github.com/MKhiriev/go-otp-keeper/internal/validators"
	"github.com/MKhiriev/go-otp-keeper/models"
)

// VaultValidationService rejects malformed requests with
// ErrInvalidDataProvided before they reach the wrapped VaultService.
type VaultValidationService struct {
	inner     VaultService
	validator validators.Validator
}

func NewVaultValidationService() VaultServiceWrapper {
	return &VaultValidationService{
		validator: validators.NewEntryValidator(config.MaxBatchSize),
	}
}

func (v *VaultValidationService) Wrap(inner VaultService) VaultService {
	v.inner = inner
	return v
}

func (v *VaultValidationService) ListKeys(ctx context.Context) ([]models.KeyResponse, error) {
	return v.inner.ListKeys(ctx)
}

func (v *VaultValidationService) CreateKey(ctx context.Context, wrappedKey string) (models.KeyResponse, error) {
	if err := v.validator.Validate(ctx, models.CreateKeyRequest{Key: wrappedKey}); err != nil {
		return models.KeyResponse{}, invalid("key upload", err)
	}
	return v.inner.CreateKey(ctx, wrappedKey)
}

func (v *VaultValidationService) ListEntries(ctx context.Context, since string) (models.EntryList, error) {
	return v.inner.ListEntries(ctx, since)
}

func (v *VaultValidationService) GetEntry(ctx context.Context, entryID string) (models.EntryResponse, error) {
	if entryID == "" {
		return models.EntryResponse{}, invalid("get entry", validators.ErrEmptyEntryID)
	}
	return v.inner.GetEntry(ctx, entryID)
}

func (v *VaultValidationService) BulkUpdate(ctx context.Context, entries []models.BulkEntryRequest) ([]models.BulkEntryResult, error) {
	if err := v.validator.Validate(ctx, models.BulkUpdateRequest{Entries: entries}); err != nil {
		return nil, invalid("bulk update", err)
	}
	return v.inner.BulkUpdate(ctx, entries)
}

func (v *VaultValidationService) BulkDelete(ctx context.Context, entryIDs []string) error {
	if err := v.validator.Validate(ctx, models.BulkDeleteRequest{EntryIDs: entryIDs}); err != nil {
		return invalid("bulk delete", err)
	}
	return v.inner.BulkDelete(ctx, entryIDs)
}

func (v *VaultValidationService) ReorderOne(ctx context.Context, entryID string, afterID *string) error {
	if entryID == "" || (afterID != nil && *afterID == "") {
		return invalid("reorder entry", validators.ErrEmptyEntryID)
	}
	return v.inner.ReorderOne(ctx, entryID, afterID)
}

func (v *VaultValidationService) ReorderBatch(ctx context.Context, startingPosition int, entryIDs []string) error {
	err := v.validator.Validate(ctx, models.ReorderBatchRequest{StartingPosition: startingPosition, Entries: entryIDs})
	if err != nil {
		return invalid("reorder entries", err)
	}
	return v.inner.ReorderBatch(ctx, startingPosition, entryIDs)
}

func invalid(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidDataProvided, op, err)
}

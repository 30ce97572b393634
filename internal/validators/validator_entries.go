// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/models"
)

// Field names accepted by [EntryValidator.Validate].
const (
	// FieldEntryID targets the server entry id. Required for deletes and
	// reorders; a bulk update item may leave it empty to create an entry.
	FieldEntryID = "entry_id"

	// FieldKeyID targets the id of the key that sealed the content.
	FieldKeyID = "authenticator_key_id"

	// FieldContent targets the encrypted entry payload.
	FieldContent = "content"

	// FieldContentFormatVersion targets the plaintext encoding tag.
	FieldContentFormatVersion = "content_format_version"

	// FieldLastRevision targets the revision an update is based on.
	FieldLastRevision = "last_revision"

	// FieldEntries targets the item list of a bulk request.
	FieldEntries = "entries"

	// FieldEntryIDs targets the id list of a bulk delete.
	FieldEntryIDs = "entry_ids"

	// FieldStartingPosition targets the first position of a batch reorder.
	FieldStartingPosition = "starting_position"

	// FieldKey targets the base64 wrapped key of a key upload.
	FieldKey = "key"
)

// EntryValidator implements [Validator] for the entry API request bodies:
// BulkUpdateRequest, BulkEntryRequest, BulkDeleteRequest,
// ReorderBatchRequest and CreateKeyRequest.
type EntryValidator struct {
	maxBatch int
}

// NewEntryValidator returns a validator that rejects bulk requests longer
// than maxBatch items. A non-positive maxBatch disables the limit.
func NewEntryValidator(maxBatch int) *EntryValidator {
	return &EntryValidator{maxBatch: maxBatch}
}

// Validate implements [Validator]. Both values and pointers are accepted.
func (v *EntryValidator) Validate(ctx context.Context, data any, fields ...string) error {
	switch value := data.(type) {
	case models.BulkUpdateRequest:
		return v.validateBulkUpdate(ctx, value, fields...)
	case *models.BulkUpdateRequest:
		return v.validateBulkUpdate(ctx, *value, fields...)

	case models.BulkEntryRequest:
		return v.validateBulkEntry(ctx, value, fields...)
	case *models.BulkEntryRequest:
		return v.validateBulkEntry(ctx, *value, fields...)

	case models.BulkDeleteRequest:
		return v.validateBulkDelete(ctx, value, fields...)
	case *models.BulkDeleteRequest:
		return v.validateBulkDelete(ctx, *value, fields...)

	case models.ReorderBatchRequest:
		return v.validateReorderBatch(ctx, value, fields...)
	case *models.ReorderBatchRequest:
		return v.validateReorderBatch(ctx, *value, fields...)

	case models.CreateKeyRequest:
		return v.validateCreateKey(ctx, value, fields...)
	case *models.CreateKeyRequest:
		return v.validateCreateKey(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateBulkUpdate(ctx context.Context, request models.BulkUpdateRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntries}
	}

	for _, f := range fields {
		switch f {
		case FieldEntries:
			if len(request.Entries) == 0 {
				return ErrEmptyEntries
			}
			if v.maxBatch > 0 && len(request.Entries) > v.maxBatch {
				return fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(request.Entries), v.maxBatch)
			}
			seen := make(map[string]struct{}, len(request.Entries))
			for i, entry := range request.Entries {
				if err := v.validateBulkEntry(ctx, entry); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				if entry.EntryID == "" {
					continue
				}
				if _, dup := seen[entry.EntryID]; dup {
					return fmt.Errorf("validation error at index %d: %w", i, ErrDuplicateEntryID)
				}
				seen[entry.EntryID] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateBulkEntry(_ context.Context, entry models.BulkEntryRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKeyID, FieldContent, FieldContentFormatVersion, FieldLastRevision}
	}

	for _, f := range fields {
		switch f {
		case FieldEntryID:
			if entry.EntryID == "" {
				return ErrEmptyEntryID
			}
		case FieldKeyID:
			if entry.AuthenticatorKeyID == "" {
				return ErrEmptyKeyID
			}
		case FieldContent:
			if len(entry.Content) == 0 {
				return ErrEmptyContent
			}
		case FieldContentFormatVersion:
			if entry.ContentFormatVersion <= 0 {
				return ErrInvalidFormatVersion
			}
		case FieldLastRevision:
			if entry.LastRevision < 0 {
				return ErrInvalidRevision
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateBulkDelete(_ context.Context, request models.BulkDeleteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntryIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldEntryIDs:
			if err := v.validateIDs(request.EntryIDs); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateReorderBatch(_ context.Context, request models.ReorderBatchRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldStartingPosition, FieldEntries}
	}

	for _, f := range fields {
		switch f {
		case FieldStartingPosition:
			if request.StartingPosition < 0 {
				return ErrInvalidPosition
			}
		case FieldEntries:
			if err := v.validateIDs(request.Entries); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptyEntries
	}
	if v.maxBatch > 0 && len(ids) > v.maxBatch {
		return fmt.Errorf("%w: %d > %d", ErrTooManyEntries, len(ids), v.maxBatch)
	}

	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("validation error at index %d: %w", i, ErrEmptyEntryID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("validation error at index %d: %w", i, ErrDuplicateEntryID)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (v *EntryValidator) validateCreateKey(_ context.Context, request models.CreateKeyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKey}
	}

	for _, f := range fields {
		switch f {
		case FieldKey:
			if request.Key == "" {
				return ErrEmptyKey
			}
			if _, err := base64.StdEncoding.DecodeString(request.Key); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidKeyEncoding, err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Wire shapes of the authenticator entry API. Field names follow the server's
// JSON schema. []byte fields travel as standard base64.

// EntryResponse is a single entry as transmitted by the server.
type EntryResponse struct {
	EntryID              string `json:"EntryID"`
	AuthenticatorKeyID   string `json:"AuthenticatorKeyID"`
	Revision             int64  `json:"Revision"`
	ContentFormatVersion int    `json:"ContentFormatVersion"`
	Content              []byte `json:"Content"`
	Flags                int64  `json:"Flags"`
	CreateTime           int64  `json:"CreateTime"`
	ModifyTime           int64  `json:"ModifyTime"`
}

// EntryList is the page body of GET .../entry.
type EntryList struct {
	Entries []EntryResponse `json:"Entries"`
	Total   int             `json:"Total"`
	LastID  *string         `json:"LastID"`
}

// ListEntriesResponse wraps [EntryList].
type ListEntriesResponse struct {
	Entries EntryList `json:"Entries"`
}

// GetEntryResponse is the body of GET .../entry/{id}.
type GetEntryResponse struct {
	Entry EntryResponse `json:"Entry"`
}

// BulkEntryRequest is one item of PUT .../entry/bulk. EntryID is empty for
// creates.
type BulkEntryRequest struct {
	EntryID              string `json:"EntryID,omitempty"`
	AuthenticatorKeyID   string `json:"AuthenticatorKeyID"`
	Content              []byte `json:"Content"`
	ContentFormatVersion int    `json:"ContentFormatVersion"`
	LastRevision         int64  `json:"LastRevision"`
}

// BulkUpdateRequest is the body of PUT .../entry/bulk.
type BulkUpdateRequest struct {
	Entries []BulkEntryRequest `json:"Entries"`
}

// Per-item result codes in a bulk update response.
const (
	BulkCodeOK               = 1000
	BulkCodeRevisionConflict = 2501
	BulkCodeNotFound         = 2404
	BulkCodeInvalid          = 2400
)

// BulkEntryResult is the per-item outcome of a bulk update, in request order.
type BulkEntryResult struct {
	Code     int    `json:"Code"`
	EntryID  string `json:"EntryID,omitempty"`
	Revision int64  `json:"Revision,omitempty"`
	Error    string `json:"Error,omitempty"`
}

// BulkUpdateResponse is the body returned by PUT .../entry/bulk.
type BulkUpdateResponse struct {
	Entries []BulkEntryResult `json:"Entries"`
}

// BulkDeleteRequest is the body of DELETE .../entry/bulk.
type BulkDeleteRequest struct {
	EntryIDs []string `json:"EntryIDs"`
}

// ReorderOneRequest is the body of PUT .../entry/{id}/order. A nil AfterID
// moves the entry to the top.
type ReorderOneRequest struct {
	AfterID *string `json:"AfterID"`
}

// ReorderBatchRequest is the body of PUT .../entry/order.
type ReorderBatchRequest struct {
	StartingPosition int      `json:"StartingPosition"`
	Entries          []string `json:"Entries"`
}

// KeyResponse is a single wrapped key.
type KeyResponse struct {
	KeyID string `json:"KeyID"`
	Key   string `json:"Key"`
}

// KeyList wraps the key slice.
type KeyList struct {
	Keys []KeyResponse `json:"Keys"`
}

// ListKeysResponse is the body of GET .../key.
type ListKeysResponse struct {
	Keys KeyList `json:"Keys"`
}

// CreateKeyRequest is the body of POST .../key.
type CreateKeyRequest struct {
	Key string `json:"Key"`
}

// CreateKeyResponse is the body returned by POST .../key.
type CreateKeyResponse struct {
	Key KeyResponse `json:"Key"`
}

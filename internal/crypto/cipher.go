// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MKhiriev/go-otp-keeper/models"
)

// CurrentContentFormatVersion is the content encoding written by this client.
//
// Version 1: UTF-8 JSON of [models.Entry].
const CurrentContentFormatVersion = 1

// RecordCipher seals and opens record payloads with AES-256-GCM. The output
// of Encrypt is self-contained (nonce ‖ ciphertext ‖ tag), so Decrypt needs
// only the blob and the key.
type RecordCipher struct{}

// NewRecordCipher returns a ready to use [RecordCipher].
func NewRecordCipher() *RecordCipher {
	return &RecordCipher{}
}

// Encrypt seals plaintext under key with a fresh random nonce.
func (c *RecordCipher) Encrypt(plaintext, key []byte) ([]byte, error) {
	return seal(plaintext, key)
}

// Decrypt opens a blob produced by Encrypt. It never returns partial data:
// any verification failure yields [ErrAuthenticationFailed].
func (c *RecordCipher) Decrypt(ciphertext, key []byte) ([]byte, error) {
	return open(ciphertext, key)
}

// EncryptEntry encodes entry with the current content format and seals it.
// It returns the ciphertext and the format version it was encoded with.
func (c *RecordCipher) EncryptEntry(entry models.Entry, key []byte) ([]byte, int, error) {
	payload, err := EncodeEntry(entry, CurrentContentFormatVersion)
	if err != nil {
		return nil, 0, err
	}

	ciphertext, err := c.Encrypt(payload, key)
	if err != nil {
		return nil, 0, fmt.Errorf("encrypt entry: %w", err)
	}
	return ciphertext, CurrentContentFormatVersion, nil
}

// DecryptEntry opens ciphertext and decodes it according to version.
func (c *RecordCipher) DecryptEntry(ciphertext []byte, version int, key []byte) (models.Entry, error) {
	if !SupportedContentFormat(version) {
		return models.Entry{}, fmt.Errorf("version %d: %w", version, ErrUnsupportedFormatVersion)
	}

	payload, err := c.Decrypt(ciphertext, key)
	if err != nil {
		return models.Entry{}, err
	}
	return DecodeEntry(payload, version)
}

// SupportedContentFormat reports whether version can be decoded.
func SupportedContentFormat(version int) bool {
	return version == CurrentContentFormatVersion
}

// EncodeEntry serializes entry in the given content format version.
func EncodeEntry(entry models.Entry, version int) ([]byte, error) {
	switch version {
	case 1:
		payload, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("marshal entry: %w", err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedFormatVersion)
	}
}

// DecodeEntry parses a payload written in the given content format version.
// Unknown versions are rejected instead of guessed.
func DecodeEntry(payload []byte, version int) (models.Entry, error) {
	switch version {
	case 1:
		var entry models.Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return models.Entry{}, fmt.Errorf("%w: unmarshal entry: %w", ErrMalformedContent, err)
		}
		return entry, nil
	default:
		return models.Entry{}, fmt.Errorf("version %d: %w", version, ErrUnsupportedFormatVersion)
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// seal encrypts plaintext with AES-256-GCM and returns nonce ‖ ciphertext.
func seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open reverses seal. Short blobs and tag mismatches both surface as
// ErrAuthenticationFailed.
func open(blob, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("ciphertext too short: %w", ErrAuthenticationFailed)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrUnknownKey is returned when a ciphertext names a key id the key ring
	// does not hold. The ciphertext cannot be read until that key arrives.
	ErrUnknownKey = errors.New("unknown key")

	// ErrNoCurrentKey is returned when nothing can be encrypted because no
	// key was designated current yet.
	ErrNoCurrentKey = errors.New("no current key")

	// ErrInvalidKey is returned for key material of the wrong size or for an
	// attempt to replace existing material under the same key id.
	ErrInvalidKey = errors.New("invalid key material")

	// ErrAuthenticationFailed is returned when tag verification fails: the
	// key is wrong, or the ciphertext was corrupted or tampered with.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnsupportedFormatVersion is returned when content is tagged with a
	// format version this client cannot decode.
	ErrUnsupportedFormatVersion = errors.New("unsupported content format version")

	// ErrMalformedContent is returned when decrypted content does not parse
	// as an entry of its declared format version.
	ErrMalformedContent = errors.New("malformed content")

	// ErrSecretNotFound is returned by [SecureStorage.Get] for unset names.
	ErrSecretNotFound = errors.New("secret not found")
)

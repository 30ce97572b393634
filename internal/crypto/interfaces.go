// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds all client-side cryptography: the account key chain,
// the key ring of entry keys, and the record cipher that seals entry content.
// It knows nothing about the network or the local database.
//
// Key hierarchy:
//
//	AccountKey = DeriveAccountKey(password, salt)     (Argon2id, never leaves the device)
//	EntryKey   = GenerateKey()                        (one per rotation)
//	Wrapped    = WrapKey(EntryKey, AccountKey)         (stored on the server)
//	Content    = RecordCipher.Encrypt(entry, EntryKey) (stored locally and on the server)
package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyChain derives the account key and wraps or unwraps entry keys with it.
type KeyChain interface {
	// GenerateSalt returns 16 random bytes for account key derivation.
	GenerateSalt() ([]byte, error)

	// GenerateKey returns a fresh random 256-bit entry key.
	GenerateKey() ([]byte, error)

	// DeriveAccountKey derives the 256-bit account key from password and
	// salt with Argon2id.
	DeriveAccountKey(password string, salt []byte) []byte

	// WrapKey seals an entry key under the account key. The blob is
	// nonce ‖ ciphertext and is safe to store on the server.
	WrapKey(key, accountKey []byte) ([]byte, error)

	// UnwrapKey opens a blob produced by WrapKey. It fails with
	// [ErrAuthenticationFailed] when the account key is wrong or the blob was
	// altered.
	UnwrapKey(wrapped, accountKey []byte) ([]byte, error)
}

// SecureStorage is the platform secret store capability: opaque bytes by name.
// Get returns [ErrSecretNotFound] for names that were never set.
type SecureStorage interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
}

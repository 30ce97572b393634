// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of every symmetric key in bytes (AES-256).
const KeySize = 32

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewKeyChain constructs a [KeyChain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
	}
}

// GenerateSalt implements [KeyChain].
func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateKey implements [KeyChain].
func (k *keyChain) GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveAccountKey implements [KeyChain]. The result exists only in client
// memory and is never transmitted.
func (k *keyChain) DeriveAccountKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		KeySize,
	)
}

// WrapKey implements [KeyChain].
func (k *keyChain) WrapKey(key, accountKey []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("wrap key: %w", ErrInvalidKey)
	}
	return seal(key, accountKey)
}

// UnwrapKey implements [KeyChain]. An error here almost always means the
// account key was derived from the wrong password.
func (k *keyChain) UnwrapKey(wrapped, accountKey []byte) ([]byte, error) {
	key, err := open(wrapped, accountKey)
	if err != nil {
		return nil, fmt.Errorf("unwrap key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("unwrap key: %w", ErrInvalidKey)
	}
	return key, nil
}

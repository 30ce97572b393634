// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// SealedStorage is a [SecureStorage] that seals every value with the account
// key before handing it to an untrusted backing store (e.g. the local
// settings table).
type SealedStorage struct {
	backend    SecureStorage
	accountKey []byte
}

// NewSealedStorage wraps backend. accountKey must be [KeySize] bytes.
func NewSealedStorage(backend SecureStorage, accountKey []byte) (*SealedStorage, error) {
	if len(accountKey) != KeySize {
		return nil, fmt.Errorf("sealed storage: %w", ErrInvalidKey)
	}
	return &SealedStorage{backend: backend, accountKey: bytes.Clone(accountKey)}, nil
}

// Get implements [SecureStorage].
func (s *SealedStorage) Get(ctx context.Context, name string) ([]byte, error) {
	blob, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	value, err := open(blob, s.accountKey)
	if err != nil {
		return nil, fmt.Errorf("open secret %q: %w", name, err)
	}
	return value, nil
}

// Set implements [SecureStorage].
func (s *SealedStorage) Set(ctx context.Context, name string, value []byte) error {
	blob, err := seal(value, s.accountKey)
	if err != nil {
		return fmt.Errorf("seal secret %q: %w", name, err)
	}
	return s.backend.Set(ctx, name, blob)
}

// MemoryStorage is an in-process [SecureStorage], used where no platform
// secret store is available and in tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStorage returns an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// Get implements [SecureStorage].
func (m *MemoryStorage) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[name]
	if !ok {
		return nil, ErrSecretNotFound
	}
	return bytes.Clone(v), nil
}

// Set implements [SecureStorage].
func (m *MemoryStorage) Set(_ context.Context, name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[name] = bytes.Clone(value)
	return nil
}

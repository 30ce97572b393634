// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// keyRingSecretName is the SecureStorage name the key ring persists under.
const keyRingSecretName = "keyring"

// KeyRing holds every entry key known to this device, indexed by key id.
// Exactly one key is current and used for new encryptions; older keys are
// kept forever because existing ciphertexts may still need them.
//
// A KeyRing is safe for concurrent use.
type KeyRing struct {
	mu      sync.RWMutex
	keys    map[string][]byte
	order   []string
	current string

	storage SecureStorage
}

type persistedKey struct {
	ID     string `json:"id"`
	Secret []byte `json:"secret"`
}

type persistedKeyRing struct {
	Current string         `json:"current"`
	Keys    []persistedKey `json:"keys"`
}

// NewKeyRing creates an empty key ring. When storage is non-nil every
// mutation is written through to it and [KeyRing.Load] restores it.
func NewKeyRing(storage SecureStorage) *KeyRing {
	return &KeyRing{
		keys:    make(map[string][]byte),
		storage: storage,
	}
}

// Load replaces the in-memory state with what storage holds. A storage that
// never saw the key ring leaves the ring empty.
func (k *KeyRing) Load(ctx context.Context) error {
	if k.storage == nil {
		return nil
	}

	raw, err := k.storage.Get(ctx, keyRingSecretName)
	if errors.Is(err, ErrSecretNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load key ring: %w", err)
	}

	var state persistedKeyRing
	if err = json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("decode key ring: %w", err)
	}

	keys := make(map[string][]byte, len(state.Keys))
	order := make([]string, 0, len(state.Keys))
	for _, pk := range state.Keys {
		if len(pk.Secret) != KeySize {
			return fmt.Errorf("decode key ring: key %s: %w", pk.ID, ErrInvalidKey)
		}
		keys[pk.ID] = pk.Secret
		order = append(order, pk.ID)
	}
	if _, ok := keys[state.Current]; state.Current != "" && !ok {
		return fmt.Errorf("decode key ring: current key %s: %w", state.Current, ErrUnknownKey)
	}

	k.mu.Lock()
	k.keys, k.order, k.current = keys, order, state.Current
	k.mu.Unlock()

	return nil
}

// Add stores secret under keyID. Adding the same material twice is a no-op;
// adding different material under a known id fails with [ErrInvalidKey].
func (k *KeyRing) Add(ctx context.Context, keyID string, secret []byte) error {
	if keyID == "" || len(secret) != KeySize {
		return fmt.Errorf("add key %q: %w", keyID, ErrInvalidKey)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if existing, ok := k.keys[keyID]; ok {
		if bytes.Equal(existing, secret) {
			return nil
		}
		return fmt.Errorf("add key %q: conflicting material: %w", keyID, ErrInvalidKey)
	}

	k.keys[keyID] = bytes.Clone(secret)
	k.order = append(k.order, keyID)

	if err := k.persistLocked(ctx); err != nil {
		delete(k.keys, keyID)
		k.order = k.order[:len(k.order)-1]
		return err
	}
	return nil
}

// Get returns the key material for keyID or [ErrUnknownKey].
func (k *KeyRing) Get(keyID string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	secret, ok := k.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", keyID, ErrUnknownKey)
	}
	return secret, nil
}

// Contains reports whether keyID is known.
func (k *KeyRing) Contains(keyID string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()

	_, ok := k.keys[keyID]
	return ok
}

// Current returns the key used for new encryptions.
func (k *KeyRing) Current() (string, []byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.current == "" {
		return "", nil, ErrNoCurrentKey
	}
	return k.current, k.keys[k.current], nil
}

// SetCurrent designates keyID, which must already be known, as current.
func (k *KeyRing) SetCurrent(ctx context.Context, keyID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.keys[keyID]; !ok {
		return fmt.Errorf("set current key %q: %w", keyID, ErrUnknownKey)
	}
	if k.current == keyID {
		return nil
	}

	previous := k.current
	k.current = keyID
	if err := k.persistLocked(ctx); err != nil {
		k.current = previous
		return err
	}
	return nil
}

// IDs returns known key ids in the order they were added.
func (k *KeyRing) IDs() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return append([]string(nil), k.order...)
}

// Len returns the number of known keys.
func (k *KeyRing) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return len(k.keys)
}

func (k *KeyRing) persistLocked(ctx context.Context) error {
	if k.storage == nil {
		return nil
	}

	state := persistedKeyRing{Current: k.current, Keys: make([]persistedKey, 0, len(k.order))}
	for _, id := range k.order {
		state.Keys = append(state.Keys, persistedKey{ID: id, Secret: k.keys[id]})
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode key ring: %w", err)
	}
	if err = k.storage.Set(ctx, keyRingSecretName, raw); err != nil {
		return fmt.Errorf("persist key ring: %w", err)
	}
	return nil
}

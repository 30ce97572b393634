// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-otp-keeper/internal/crypto"
	"github.com/MKhiriev/go-otp-keeper/internal/store"
)

// ErrWrongPassword is returned when the stored key ring does not open with
// the derived account key.
var ErrWrongPassword = errors.New("wrong account password")

// Vault is the unlocked key material of one account.
type Vault struct {
	AccountKey []byte
	KeyRing    *crypto.KeyRing
}

// AccountService derives the account key and opens the persisted key ring.
type AccountService struct {
	keyChain crypto.KeyChain
	settings store.SettingsRepository
}

func NewAccountService(keyChain crypto.KeyChain, settings store.SettingsRepository) *AccountService {
	return &AccountService{keyChain: keyChain, settings: settings}
}

// Unlock derives the account key from password and the hex encoded salt,
// then loads the key ring sealed under it.
func (a *AccountService) Unlock(ctx context.Context, password, saltHex string) (Vault, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return Vault{}, fmt.Errorf("decode account salt: %w", err)
	}

	accountKey := a.keyChain.DeriveAccountKey(password, salt)

	sealed, err := crypto.NewSealedStorage(store.NewSecretBackend(a.settings), accountKey)
	if err != nil {
		return Vault{}, fmt.Errorf("open secure storage: %w", err)
	}

	keyRing := crypto.NewKeyRing(sealed)
	if err = keyRing.Load(ctx); err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return Vault{}, ErrWrongPassword
		}
		return Vault{}, fmt.Errorf("load key ring: %w", err)
	}

	return Vault{AccountKey: accountKey, KeyRing: keyRing}, nil
}

// NewSalt returns a fresh hex encoded account salt.
func (a *AccountService) NewSalt() (string, error) {
	salt, err := a.keyChain.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("generate account salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request or response body.
const HashHeader = "HashSHA256"

// Hasher computes keyed HMAC-SHA256 digests. Instances are reused through a
// pool so hot paths (every request body) do not allocate a new MAC each time.
//
// A Hasher with an empty key is disabled: Sum returns nil and Verify accepts
// everything.
type Hasher struct {
	key  []byte
	pool sync.Pool
}

// NewHasher returns a [Hasher] for hashKey.
func NewHasher(hashKey string) *Hasher {
	h := &Hasher{key: []byte(hashKey)}
	h.pool.New = func() any {
		return hmac.New(sha256.New, h.key)
	}
	return h
}

// Enabled reports whether a key is configured.
func (h *Hasher) Enabled() bool {
	return h != nil && len(h.key) > 0
}

// Sum returns the HMAC-SHA256 of data.
func (h *Hasher) Sum(data []byte) []byte {
	if !h.Enabled() {
		return nil
	}

	mac := h.pool.Get().(hash.Hash)
	mac.Reset()
	mac.Write(data)
	sum := mac.Sum(nil)
	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// SumHex returns Sum(data) hex encoded, or "" when disabled.
func (h *Hasher) SumHex(data []byte) string {
	if !h.Enabled() {
		return ""
	}
	return hex.EncodeToString(h.Sum(data))
}

// Verify checks a hex digest in constant time.
func (h *Hasher) Verify(data []byte, hexSum string) bool {
	if !h.Enabled() {
		return true
	}

	want, err := hex.DecodeString(hexSum)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Sum(data), want)
}

// HashString computes a one-off hex HMAC-SHA256 of data without touching
// any pool.
func HashString(data string, hashKey string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

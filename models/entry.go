// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EntryType selects the one-time password flavour of an entry.
type EntryType string

const (
	// TOTP is a time-based one-time password (RFC 6238).
	TOTP EntryType = "totp"
	// HOTP is a counter-based one-time password (RFC 4226).
	HOTP EntryType = "hotp"
)

// Entry is the decrypted content of a [Record]. It never leaves the client in
// plaintext form.
type Entry struct {
	// ID is the local record id. It is not part of the encrypted content.
	ID string `json:"-"`

	// Name is the human-readable label shown in the entry list.
	Name string `json:"name"`

	// Issuer is the service that issued the secret, if known.
	Issuer string `json:"issuer,omitempty"`

	// URI is the original otpauth:// URI the entry was created from.
	URI string `json:"uri,omitempty"`

	// Secret is the base32 shared secret.
	Secret string `json:"secret"`

	Type      EntryType `json:"type"`
	Algorithm string    `json:"algorithm,omitempty"`
	Digits    int       `json:"digits,omitempty"`

	// Period is the TOTP step in seconds.
	Period int `json:"period,omitempty"`

	// Counter is the HOTP moving factor.
	Counter uint64 `json:"counter,omitempty"`

	Note string `json:"note,omitempty"`
}

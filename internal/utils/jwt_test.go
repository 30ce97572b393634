// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", "device-1", time.Hour, "secret-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Subject != "device-1" {
		t.Errorf("expected subject 'device-1', got %s", token.Subject)
	}

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %s", claims.Issuer)
	}
	if token.Expired(time.Now()) {
		t.Error("fresh token must not be expired")
	}
	if !token.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("token must expire after its duration")
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		subject  string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "s", time.Hour, "k"},
		{"empty subject", "i", "", time.Hour, "k"},
		{"zero duration", "i", "s", 0, "k"},
		{"empty key", "i", "s", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateJWTToken(tt.issuer, tt.subject, tt.duration, tt.key); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	token, err := GenerateJWTToken("iss", "device-1", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "key", "iss")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.Subject != "device-1" {
		t.Errorf("expected subject device-1, got %s", parsed.Subject)
	}

	if _, err = ValidateAndParseJWTToken(token.SignedString, "other-key", "iss"); err == nil {
		t.Error("expected signature error")
	}
	if _, err = ValidateAndParseJWTToken(token.SignedString, "key", "other-iss"); err == nil {
		t.Error("expected issuer error")
	}
}

func TestParseUnverifiedToken(t *testing.T) {
	token, err := GenerateJWTToken("iss", "device-1", time.Minute, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ParseUnverifiedToken(token.SignedString)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !parsed.ExpiresAt.Equal(token.ExpiresAt) {
		t.Errorf("expiry mismatch: %v vs %v", parsed.ExpiresAt, token.ExpiresAt)
	}

	if _, err = ParseUnverifiedToken("garbage"); err == nil {
		t.Error("expected parse error for garbage")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "  bearer   abc  ", want: "abc"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAuthorizationHeader) {
				t.Errorf("%q: expected ErrInvalidAuthorizationHeader, got %v", tt.header, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got (%q, %v), want %q", tt.header, got, err, tt.want)
		}
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
)

func lastEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestNewLogger_EntryShape(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("server")
	l.Logger = l.Output(&buf)

	l.Info().Str("remote_id", "r1").Msg("pulled")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "server", entry["role"])
	assert.Equal(t, "r1", entry["remote_id"])
	assert.Equal(t, "pulled", entry["message"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry["func"], "TestNewLogger_EntryShape")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Error().Msg("dropped")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("client")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	require.NotSame(t, parent, child)
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("cycle", "7")
	})

	child.Info().Msg("child")
	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "client", entry["role"])
	assert.Equal(t, "7", entry["cycle"])

	parent.Info().Msg("parent")
	entry = lastEntry(t, buf.Bytes())
	assert.NotContains(t, entry, "cycle")
}

func TestFromContext(t *testing.T) {
	t.Run("attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		zl := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()

		FromContext(zl.WithContext(context.Background())).Info().Msg("hi")

		assert.Equal(t, "abc", lastEntry(t, buf.Bytes())["trace_id"])
	})

	t.Run("no logger", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info().Msg("nowhere") })
	})
}

func TestFromRequest(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("account_id", "owner").Logger()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("request")

	assert.Equal(t, "owner", lastEntry(t, buf.Bytes())["account_id"])
}

func TestNewClientLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := NewClientLogger("client", config.ClientLog{File: path, MaxSizeMB: 1, MaxBackups: 1, Level: "debug"})

	l.Debug().Str("k", "v").Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entry := lastEntry(t, data)
	assert.Equal(t, "client", entry["role"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewClientLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "warn", want: zerolog.WarnLevel},
		{level: "debug", want: zerolog.DebugLevel},
		{level: "chatty", want: zerolog.InfoLevel},
		{level: "", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			NewClientLogger("client", config.ClientLog{Level: tt.level})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the sync client and the reference server.
//
// *Logger embeds zerolog.Logger, so the whole zerolog API is available on
// it. Request and cycle scoped loggers travel in the context and are read
// back with FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MKhiriev/go-otp-keeper/internal/config"
)

type Logger struct {
	zerolog.Logger
}

// NewLogger returns a JSON stdout logger at debug level. Every entry carries
// "role", a timestamp and the calling function under "func".
func NewLogger(role string) *Logger {
	setGlobals(zerolog.DebugLevel)
	return newRoleLogger(os.Stdout, role)
}

// NewClientLogger is NewLogger for the long running client: entries go to
// cfg.File through a rotating writer (stdout when cfg.File is empty) and
// cfg.Level picks the minimum level, Info when empty or unknown.
func NewClientLogger(role string, cfg config.ClientLog) *Logger {
	setGlobals(parseLevel(cfg.Level))
	return newRoleLogger(clientWriter(cfg), role)
}

func setGlobals(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}
}

func newRoleLogger(w io.Writer, role string) *Logger {
	return &Logger{zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()}
}

func clientWriter(cfg config.ClientLog) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Nop discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger copies l so fields can be added without touching l.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the logger attached to r's context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx. Without one it falls back
// to zerolog's default context logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

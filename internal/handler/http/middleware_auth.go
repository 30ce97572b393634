// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
)

// auth enforces bearer token authentication.
//
// The token from the "Authorization" header is checked by
// AuthService.ParseToken. On success its subject is stored in the request
// context with [utils.WithAccountID] and added to the request logger as
// account_id. Every failure is answered with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		accountLog := log.GetChildLogger()
		accountLog.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("account_id", token.Subject)
		})
		ctx = accountLog.WithContext(utils.WithAccountID(ctx, token.Subject))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

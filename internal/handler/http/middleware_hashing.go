// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-otp-keeper/internal/app"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
)

// withHashCheck verifies the HashSHA256 header of every request that has a
// body. It is a no-op when the server runs without a hash key.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasher.Enabled() || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
			http.Error(w, app.MsgInternalServerError, http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if len(body) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		sum := r.Header.Get(utils.HashHeader)
		if sum == "" {
			log.Err(ErrMissingHash).Str("func", "*Handler.withHashCheck").Send()
			http.Error(w, ErrMissingHash.Error(), http.StatusBadRequest)
			return
		}

		if !h.hasher.Verify(body, sum) {
			log.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", sum).
				Str("hashed body", h.hasher.SumHex(body)).
				Msg("hashes are not equal")
			http.Error(w, ErrHashMismatch.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

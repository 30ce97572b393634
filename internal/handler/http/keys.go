// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-otp-keeper/internal/app"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	keys, err := h.services.VaultService.ListKeys(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listKeys").Msg("error listing keys")
		http.Error(w, app.MsgErrorListingKeys, statusFromError(err))
		return
	}
	if keys == nil {
		keys = []models.KeyResponse{}
	}

	utils.WriteJSON(w, models.ListKeysResponse{Keys: models.KeyList{Keys: keys}}, http.StatusOK)
}

func (h *Handler) createKey(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.CreateKeyRequest
	if err := utils.ReadJSON(r, &request); err != nil {
		log.Err(err).Str("func", "*Handler.createKey").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	key, err := h.services.VaultService.CreateKey(r.Context(), request.Key)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createKey").Msg("error storing key")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.CreateKeyResponse{Key: key}, http.StatusCreated)
}

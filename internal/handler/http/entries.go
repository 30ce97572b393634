// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-otp-keeper/internal/app"
	"github.com/MKhiriev/go-otp-keeper/internal/logger"
	"github.com/MKhiriev/go-otp-keeper/internal/utils"
	"github.com/MKhiriev/go-otp-keeper/models"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	list, err := h.services.VaultService.ListEntries(r.Context(), r.URL.Query().Get("Since"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntries").Msg("error listing entries")
		http.Error(w, app.MsgErrorListingEntries, statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ListEntriesResponse{Entries: list}, http.StatusOK)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	entry, err := h.services.VaultService.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntry").Msg("error getting entry")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.GetEntryResponse{Entry: entry}, http.StatusOK)
}

func (h *Handler) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.BulkUpdateRequest
	if err := utils.ReadJSON(r, &request); err != nil {
		log.Err(err).Str("func", "*Handler.bulkUpdate").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	results, err := h.services.VaultService.BulkUpdate(r.Context(), request.Entries)
	if err != nil {
		log.Err(err).Str("func", "*Handler.bulkUpdate").Msg("error updating entries")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.BulkUpdateResponse{Entries: results}, http.StatusOK)
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.BulkDeleteRequest
	if err := utils.ReadJSON(r, &request); err != nil {
		log.Err(err).Str("func", "*Handler.bulkDelete").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.VaultService.BulkDelete(r.Context(), request.EntryIDs); err != nil {
		log.Err(err).Str("func", "*Handler.bulkDelete").Msg("error deleting entries")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderOne(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.ReorderOneRequest
	if err := utils.ReadJSON(r, &request); err != nil {
		log.Err(err).Str("func", "*Handler.reorderOne").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.VaultService.ReorderOne(r.Context(), chi.URLParam(r, "id"), request.AfterID); err != nil {
		log.Err(err).Str("func", "*Handler.reorderOne").Msg("error reordering entry")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request models.ReorderBatchRequest
	if err := utils.ReadJSON(r, &request); err != nil {
		log.Err(err).Str("func", "*Handler.reorderBatch").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	err := h.services.VaultService.ReorderBatch(r.Context(), request.StartingPosition, request.Entries)
	if err != nil {
		log.Err(err).Str("func", "*Handler.reorderBatch").Msg("error reordering entries")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

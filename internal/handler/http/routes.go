// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const apiPrefix = "/api/authenticator/v1"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/version", h.getServerVersion)

	router.Route(apiPrefix, func(r chi.Router) {
		r.Use(h.auth, h.withHashCheck)

		r.Get("/key", h.listKeys)
		r.Post("/key", h.createKey)

		r.Get("/entry", h.listEntries)
		r.Put("/entry/bulk", h.bulkUpdate)
		r.Delete("/entry/bulk", h.bulkDelete)
		r.Put("/entry/order", h.reorderBatch)
		r.Get("/entry/{id}", h.getEntry)
		r.Put("/entry/{id}/order", h.reorderOne)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/buckeye17/sleepwithdash/docs" // registers the OpenAPI document
	"github.com/buckeye17/sleepwithdash/internal/config"
)

// NewRouter mounts every route on a chi router.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(Instrument())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/descriptions", h.Descriptions)
		r.Get("/events", h.Events)
		r.Get("/solar", h.Solar)
		r.Get("/summary", h.Summary)

		r.With(SyncRateLimit(cfg.SyncRateLimit)).Post("/sync", h.TriggerSync)
		r.Get("/sync/status", h.SyncStatus)
	})

	r.Get("/ws/sync", h.SyncProgressStream)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
	))

	return r
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buckeye17/sleepwithdash/internal/database"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
	"github.com/buckeye17/sleepwithdash/internal/pipeline"
	ws "github.com/buckeye17/sleepwithdash/internal/websocket"
)

// Store is the read side of the archive served by the API.
type Store interface {
	Ping(ctx context.Context) error
	LoadDescriptions(ctx context.Context, f database.DescriptionFilter) (models.DescriptionTable, error)
	LoadEvents(ctx context.Context, f database.DescriptionFilter) (models.EventTable, error)
	LoadSolar(ctx context.Context, from, to *models.Date) (models.SolarTable, error)
	TableCounts(ctx context.Context) (map[string]int64, error)
	DescriptionSpan(ctx context.Context) (first, last models.Date, ok bool, err error)
}

// SyncController starts runs and reports their state. Implemented by
// pipeline.Runner.
type SyncController interface {
	Trigger() (string, error)
	Status() pipeline.Status
}

// Handler serves the API routes.
type Handler struct {
	store       Store
	sync        SyncController
	hub         *ws.Hub
	corsOrigins []string
	startTime   time.Time
}

// NewHandler creates a Handler. hub may be nil, in which case /ws/sync
// answers 503.
func NewHandler(store Store, sync SyncController, hub *ws.Hub, corsOrigins []string) *Handler {
	return &Handler{
		store:       store,
		sync:        sync,
		hub:         hub,
		corsOrigins: corsOrigins,
		startTime:   time.Now(),
	}
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	SyncRunning       bool    `json:"sync_running"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health pings the database. A failed ping answers 503 with status
// "degraded".
//
// @Summary Get service health
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Failure 503 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: dbConnected,
		SyncRunning:       h.sync.Status().Running,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	status := http.StatusOK
	if !dbConnected {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondData(w, r, status, health, nil)
}

// Descriptions lists session descriptions passing the dashboard filters.
//
// @Summary List session descriptions
// @Tags Dashboard
// @Produce json
// @Param from query string false "First date, inclusive" format(date)
// @Param to query string false "Last date, inclusive" format(date)
// @Param days query string false "Comma separated weekday names"
// @Param workday query bool false "Workdays (true) or days off (false)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /descriptions [get]
func (h *Handler) Descriptions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDescriptionFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	table, err := h.store.LoadDescriptions(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load descriptions", err)
		return
	}
	n := len(table)
	respondData(w, r, http.StatusOK, descriptionViews(table), &n)
}

// Events lists the events of sessions passing the dashboard filters.
//
// @Summary List session events
// @Tags Dashboard
// @Produce json
// @Param from query string false "First date, inclusive" format(date)
// @Param to query string false "Last date, inclusive" format(date)
// @Param days query string false "Comma separated weekday names"
// @Param workday query bool false "Workdays (true) or days off (false)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDescriptionFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	table, err := h.store.LoadEvents(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load events", err)
		return
	}
	n := len(table)
	respondData(w, r, http.StatusOK, eventViews(table), &n)
}

// Solar lists the solar archive between the optional from and to dates.
//
// @Summary List solar data
// @Tags Dashboard
// @Produce json
// @Param from query string false "First date, inclusive" format(date)
// @Param to query string false "Last date, inclusive" format(date)
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /solar [get]
func (h *Handler) Solar(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r.URL.Query())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	table, err := h.store.LoadSolar(r.Context(), from, to)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load solar data", err)
		return
	}
	n := len(table)
	respondData(w, r, http.StatusOK, solarViews(table), &n)
}

// Summary reports row counts per table and the span of described nights.
//
// @Summary Get archive summary
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=Summary}
// @Failure 500 {object} APIResponse
// @Router /summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.TableCounts(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count tables", err)
		return
	}
	first, last, ok, err := h.store.DescriptionSpan(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load date span", err)
		return
	}

	summary := Summary{Tables: counts}
	if ok {
		summary.FirstDate = &first
		summary.LastDate = &last
	}
	respondData(w, r, http.StatusOK, summary, nil)
}

// SyncAccepted is the body of a 202 from POST /api/v1/sync.
type SyncAccepted struct {
	RunID string `json:"run_id"`
}

// TriggerSync starts a run in the background.
//
// @Summary Trigger a sync
// @Tags Sync
// @Produce json
// @Success 202 {object} APIResponse{data=SyncAccepted}
// @Failure 409 {object} APIResponse "A run is already in flight"
// @Failure 429 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	runID, err := h.sync.Trigger()
	switch {
	case errors.Is(err, pipeline.ErrSyncInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "A sync is already in progress", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to start sync", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("run_id", runID).Msg("Sync triggered")
	respondData(w, r, http.StatusAccepted, SyncAccepted{RunID: runID}, nil)
}

// SyncStatus reports the current or last run.
//
// @Summary Get sync status
// @Tags Sync
// @Produce json
// @Success 200 {object} APIResponse
// @Router /sync/status [get]
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.sync.Status(), nil)
}

// SyncProgressStream upgrades to a websocket that receives every progress
// event of every run.
func (h *Handler) SyncProgressStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts the configured CORS origins. Browsers always
// send Origin, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package main is the sleepwithdash server.
//
// The server keeps the sleep archive current and serves it to the dashboard.
// Components start in this order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging and optional Sentry failure reporting
//  3. DuckDB archive
//  4. Garmin and almanac clients behind circuit breakers
//  5. Pipeline runner publishing progress on the in-process bus
//  6. WebSocket hub fed by the progress subscriber
//  7. HTTP API and the supervisor tree running all of the above
//
// Syncs start with POST /api/v1/sync; progress streams on /ws/sync.
//
// # Example
//
//	export GARMIN_USERNAME=me@example.com
//	export GARMIN_PASSWORD=secret
//	export DUCKDB_PATH=/var/lib/sleepwithdash/sleep.duckdb
//	./server
//
// SIGINT and SIGTERM stop the tree gracefully: in-flight requests finish
// within server.shutdown_timeout and a running sync is canceled.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/buckeye17/sleepwithdash/internal/app"
	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.InitLogging(cfg)

	logging.Info().Str("version", app.Version).Msg("Starting sleepwithdash server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		return
	}
	logging.Info().Msg("Application stopped gracefully")
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package app assembles the process from configuration. Both binaries use it:
// cmd/server always serves, cmd/sleepctl serves or runs a single sync.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/buckeye17/sleepwithdash/internal/api"
	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/database"
	"github.com/buckeye17/sleepwithdash/internal/legacy"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/metrics"
	"github.com/buckeye17/sleepwithdash/internal/models"
	"github.com/buckeye17/sleepwithdash/internal/pipeline"
	"github.com/buckeye17/sleepwithdash/internal/supervisor"
	"github.com/buckeye17/sleepwithdash/internal/supervisor/services"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
	ws "github.com/buckeye17/sleepwithdash/internal/websocket"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// App holds the long-lived components built from one configuration.
type App struct {
	Config   *config.Config
	DB       *database.DB
	Runner   *pipeline.Runner
	Bus      *gochannel.GoChannel
	Hub      *ws.Hub
	reporter *pipeline.SentryReporter
}

// InitLogging applies the logging section of cfg to the global logger.
func InitLogging(cfg *config.Config) {
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
}

// OpenDatabase opens the archive with timestamps read back in the pipeline
// timezone.
func OpenDatabase(cfg *config.Config) (*database.DB, error) {
	loc, err := cfg.Pipeline.Location()
	if err != nil {
		return nil, err
	}
	db, err := database.New(&cfg.Database, loc)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return db, nil
}

// New opens the archive and wires the runner to the providers, the legacy
// exports, the progress bus and the failure reporter.
func New(cfg *config.Config) (*App, error) {
	metrics.AppInfo.WithLabelValues(Version, runtime.Version()).Set(1)

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: db, Bus: pipeline.NewEventBus(), Hub: ws.NewHub()}

	reporter, err := pipeline.NewSentryReporter(&cfg.Sentry, Version)
	if err != nil {
		// Reporting is optional; the sync itself still works without it.
		logging.Warn().Err(err).Msg("Sentry unavailable, failures will only be logged")
	}
	a.reporter = reporter

	legacyLoc, err := cfg.Pipeline.LegacyLocation()
	if err != nil {
		a.Close()
		return nil, err
	}

	providerCfg := cfg.Provider
	deps := pipeline.Deps{
		Store: db,
		Acquirer: func(start models.Date) (intsync.SessionAcquirer, error) {
			return intsync.NewSessionAcquirer(&providerCfg, start)
		},
		Provider:  intsync.NewCircuitBreakerClient(intsync.NewGarminClient(&cfg.Provider)),
		Almanac:   intsync.NewCircuitBreakerAlmanac(intsync.NewAlmanacClient(&cfg.Almanac)),
		Legacy:    legacy.NewLoader(cfg.Pipeline.LegacyDir, cfg.Pipeline.LegacyYears, legacyLoc),
		Publisher: a.Bus,
	}
	if reporter != nil {
		deps.Reporter = reporter
	}

	runner, err := pipeline.NewRunner(cfg, deps)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Runner = runner

	logging.Info().
		Str("version", Version).
		Str("db_path", cfg.Database.Path).
		Str("timezone", cfg.Pipeline.Timezone).
		Str("login_mode", cfg.Provider.LoginMode).
		Msg("Application initialized")
	return a, nil
}

// RunOnce executes a single sync run in the foreground.
func (a *App) RunOnce(ctx context.Context) (*pipeline.RunContext, error) {
	return a.Runner.Run(ctx)
}

// Handler returns the HTTP router.
func (a *App) Handler() http.Handler {
	h := api.NewHandler(a.DB, a.Runner, a.Hub, a.Config.Server.CORSOrigins)
	return api.NewRouter(h, &a.Config.Server)
}

// Serve runs the supervisor tree until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	server := &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           a.Handler(),
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddSyncService(services.NewWebSocketHubService(a.Hub))
	tree.AddSyncService(ws.NewProgressSubscriber(a.Hub, a.Bus))
	tree.AddSyncService(services.NewSyncService(a.Runner))
	tree.AddAPIService(services.NewHTTPServerService(server, a.Config.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
		serveErr = err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}

// Close flushes pending failure reports and closes the bus and the archive.
func (a *App) Close() {
	if a.reporter != nil {
		a.reporter.Flush()
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
}

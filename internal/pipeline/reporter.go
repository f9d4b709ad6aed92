// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/logging"
)

// FailureReporter receives fatal run failures.
type FailureReporter interface {
	ReportFailure(ctx context.Context, runID string, err error)
}

// SentryReporter sends failures to Sentry.
type SentryReporter struct {
	flushTimeout time.Duration
}

// NewSentryReporter initializes the Sentry client. It returns nil, nil when
// no DSN is configured.
func NewSentryReporter(cfg *config.SentryConfig, release string) (*SentryReporter, error) {
	if cfg.DSN == "" {
		logging.Debug().Msg("Sentry DSN not configured, failure reporting disabled")
		return nil, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil && event.Request.Headers != nil {
				delete(event.Request.Headers, "Cookie")
				delete(event.Request.Headers, "Authorization")
			}
			return event
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	logging.Info().Str("environment", cfg.Environment).Msg("Sentry initialized")
	return &SentryReporter{flushTimeout: 2 * time.Second}, nil
}

// ReportFailure implements FailureReporter.
func (r *SentryReporter) ReportFailure(_ context.Context, runID string, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", runID)
		var se *StageError
		if errors.As(err, &se) {
			scope.SetTag("stage", se.Stage)
			scope.SetTag("step", strconv.Itoa(se.Step))
		}
		hub.CaptureException(err)
	})
}

// Flush waits for queued events.
func (r *SentryReporter) Flush() bool {
	return sentry.Flush(r.flushTimeout)
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package logging provides the process-wide zerolog logger for sleepwithdash.
//
// The pipeline, the provider clients, the archive store and the HTTP API all
// log through this package so that every line carries the same field names
// and, where a context is available, the run and correlation identifiers of
// the sync run that produced it.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("missing", n).Msg("Gap detection finished")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Almanac request failed")
//
// # Components
//
// Long-lived collaborators take a component logger once:
//
//	log := logging.WithComponent("provider")
//	log.Debug().Str("start", s).Str("end", e).Msg("Requesting chunk")
//
// # Suture integration
//
// NewSlogLogger returns a log/slog logger backed by zerolog, which is what
// sutureslog expects for supervisor events.
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging

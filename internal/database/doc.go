// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package database is the DuckDB archive store behind the sync pipeline and
// the dashboard API.
//
// # Tables
//
//   - nights: the primary nightly archive, one row per bed-night date
//   - sleep_descriptions: per-session summaries derived from all sources
//   - sleep_events: two rows per session ("Fell Asleep" and "Woke Up")
//   - solar: sunrise and sunset per date
//   - session_ids: the date to session id assignment when stable ids are on
//
// # Write Model
//
// Every write is a full-table replacement inside one transaction, so readers
// only ever see the previous or the next consistent version of a table.
// Tables are validated against the models schema before they are written and
// a violation is reported as models.ErrSchema.
//
// Timestamps are stored as UTC instants and returned in the location the
// store was opened with.
//
// # Files
//
//   - database.go: lifecycle (open, schema, checkpoint, close)
//   - database_schema.go: table definitions
//   - nights.go, derived.go, solar.go, session_ids.go: table access
//   - maintenance.go: trim, restore and counts
//   - query/: WHERE clause construction for filtered reads
package database

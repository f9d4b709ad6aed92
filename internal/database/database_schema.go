// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package database

import (
	"context"
	"fmt"
	"time"
)

// Table names.
const (
	TableNights       = "nights"
	TableDescriptions = "sleep_descriptions"
	TableEvents       = "sleep_events"
	TableSolar        = "solar"
	TableSessionIDs   = "session_ids"
)

// Tables lists every archive table in dependency-free order.
var Tables = []string{TableNights, TableDescriptions, TableEvents, TableSolar, TableSessionIDs}

// dateColumn maps each table to the date column trimming applies to.
var dateColumn = map[string]string{
	TableNights:       "prev_day",
	TableDescriptions: "prev_day",
	TableEvents:       "prev_day",
	TableSolar:        "date",
	TableSessionIDs:   "prev_day",
}

// Durations are stored as seconds. Timestamps are UTC instants. Key
// uniqueness is checked by table validation before each replacement.
var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS nights (
		prev_day DATE NOT NULL,
		bed_time TIMESTAMP,
		wake_time TIMESTAMP,
		awake_seconds DOUBLE,
		light_seconds DOUBLE,
		deep_seconds DOUBLE,
		total_seconds DOUBLE,
		nap_seconds DOUBLE,
		window_confirmed BOOLEAN,
		source VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sleep_descriptions (
		session_id BIGINT NOT NULL,
		prev_day DATE NOT NULL,
		awake_seconds DOUBLE,
		light_seconds DOUBLE,
		deep_seconds DOUBLE,
		total_seconds DOUBLE,
		year INTEGER NOT NULL,
		day VARCHAR NOT NULL,
		is_holiday BOOLEAN NOT NULL,
		is_workday BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sleep_events (
		session_id BIGINT NOT NULL,
		prev_day DATE NOT NULL,
		event VARCHAR NOT NULL,
		date_time TIMESTAMP,
		tod DOUBLE,
		date_time_str VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS solar (
		date DATE NOT NULL,
		sunrise TIMESTAMP NOT NULL,
		sunrise_tod DOUBLE NOT NULL,
		sunset TIMESTAMP NOT NULL,
		sunset_tod DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS session_ids (
		prev_day DATE NOT NULL,
		session_id BIGINT NOT NULL
	)`,
}

var indexDefinitions = []string{
	`CREATE INDEX IF NOT EXISTS idx_sleep_events_session ON sleep_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sleep_descriptions_day ON sleep_descriptions(day)`,
}

// createTables creates the archive tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, q := range tableDefinitions {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, q := range indexDefinitions {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

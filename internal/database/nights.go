// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// LoadNights returns the primary archive ordered by date. An empty archive
// yields an empty table and no error.
func (db *DB) LoadNights(ctx context.Context) (table models.NightTable, err error) {
	defer observe("load", TableNights, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT prev_day, bed_time, wake_time,
		       awake_seconds, light_seconds, deep_seconds, total_seconds, nap_seconds,
		       window_confirmed, source
		FROM nights
		ORDER BY prev_day`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nights: %w", err)
	}
	defer closeWithLog(rows, "rows")

	table = models.NightTable{}
	for rows.Next() {
		var (
			prevDay                        time.Time
			bed, wake                      sql.NullTime
			awake, light, deep, total, nap sql.NullFloat64
			confirmed                      sql.NullBool
			source                         string
		)
		if err := rows.Scan(&prevDay, &bed, &wake, &awake, &light, &deep, &total, &nap, &confirmed, &source); err != nil {
			return nil, fmt.Errorf("failed to scan night: %w", err)
		}
		table = append(table, models.NightRecord{
			PrevDay:         scanDate(prevDay),
			BedTime:         db.scanTime(bed),
			WakeTime:        db.scanTime(wake),
			Awake:           scanSeconds(awake),
			Light:           scanSeconds(light),
			Deep:            scanSeconds(deep),
			Total:           scanSeconds(total),
			Nap:             scanSeconds(nap),
			WindowConfirmed: scanBool(confirmed),
			Source:          models.Source(source),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nights: %w", err)
	}
	return table, nil
}

// ReplaceNights validates table as an archive and atomically replaces the
// stored nights with it.
func (db *DB) ReplaceNights(ctx context.Context, table models.NightTable) (err error) {
	defer observe("replace", TableNights, time.Now(), &err)
	if err := table.Validate(true); err != nil {
		return err
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	const insert = `INSERT INTO nights (
		prev_day, bed_time, wake_time,
		awake_seconds, light_seconds, deep_seconds, total_seconds, nap_seconds,
		window_confirmed, source
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTable(ctx, tx, TableNights, insert, len(table), func(i int) []any {
			n := &table[i]
			return []any{
				dateArg(n.PrevDay), timeArg(n.BedTime), timeArg(n.WakeTime),
				secondsArg(n.Awake), secondsArg(n.Light), secondsArg(n.Deep), secondsArg(n.Total), secondsArg(n.Nap),
				boolArg(n.WindowConfirmed), string(n.Source),
			}
		})
	})
}

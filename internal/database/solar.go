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

	"github.com/buckeye17/sleepwithdash/internal/database/query"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// LoadSolar returns almanac rows in [from, to] ordered by date. Nil bounds
// are open.
func (db *DB) LoadSolar(ctx context.Context, from, to *models.Date) (table models.SolarTable, err error) {
	defer observe("load", TableSolar, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	wb := query.NewWhereBuilder()
	if from != nil {
		wb.AddClause("date >= ?", dateArg(*from))
	}
	if to != nil {
		wb.AddClause("date <= ?", dateArg(*to))
	}
	where, args := wb.BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT date, sunrise, sunrise_tod, sunset, sunset_tod
		FROM solar `+where+`
		ORDER BY date`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query solar: %w", err)
	}
	defer closeWithLog(rows, "rows")

	table = models.SolarTable{}
	for rows.Next() {
		var (
			rec             models.SolarRecord
			date            time.Time
			sunrise, sunset time.Time
		)
		if err := rows.Scan(&date, &sunrise, &rec.SunriseToD, &sunset, &rec.SunsetToD); err != nil {
			return nil, fmt.Errorf("failed to scan solar: %w", err)
		}
		rec.Date = scanDate(date)
		rec.Sunrise = sunrise.In(db.loc)
		rec.Sunset = sunset.In(db.loc)
		table = append(table, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate solar: %w", err)
	}
	return table, nil
}

// ReplaceSolar validates and atomically replaces the almanac table.
func (db *DB) ReplaceSolar(ctx context.Context, table models.SolarTable) (err error) {
	defer observe("replace", TableSolar, time.Now(), &err)
	if err := table.Validate(); err != nil {
		return err
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	const insert = `INSERT INTO solar (date, sunrise, sunrise_tod, sunset, sunset_tod) VALUES (?, ?, ?, ?, ?)`
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTable(ctx, tx, TableSolar, insert, len(table), func(i int) []any {
			r := &table[i]
			return []any{dateArg(r.Date), r.Sunrise.UTC(), r.SunriseToD, r.Sunset.UTC(), r.SunsetToD}
		})
	})
}

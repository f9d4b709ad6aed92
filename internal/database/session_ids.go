// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// LoadSessionIDs returns the persisted date to session id assignment.
func (db *DB) LoadSessionIDs(ctx context.Context) (ids map[models.Date]int64, err error) {
	defer observe("load", TableSessionIDs, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT prev_day, session_id FROM session_ids`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session ids: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids = make(map[models.Date]int64)
	for rows.Next() {
		var (
			prevDay time.Time
			id      int64
		)
		if err := rows.Scan(&prevDay, &id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids[scanDate(prevDay)] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session ids: %w", err)
	}
	return ids, nil
}

// ReplaceSessionIDs atomically replaces the assignment. Ids must be unique.
func (db *DB) ReplaceSessionIDs(ctx context.Context, ids map[models.Date]int64) (err error) {
	defer observe("replace", TableSessionIDs, time.Now(), &err)

	dates := make([]models.Date, 0, len(ids))
	seen := make(map[int64]models.Date, len(ids))
	for d, id := range ids {
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: session id %d assigned to %s and %s", models.ErrSchema, id, prev, d)
		}
		seen[id] = d
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	const insert = `INSERT INTO session_ids (prev_day, session_id) VALUES (?, ?)`
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTable(ctx, tx, TableSessionIDs, insert, len(dates), func(i int) []any {
			return []any{dateArg(dates[i]), ids[dates[i]]}
		})
	})
}

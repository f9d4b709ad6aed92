// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

const backupAlias = "restore_src"

// TrimAfter deletes every row dated after cutoff from every table and
// returns the number of rows removed per table.
func (db *DB) TrimAfter(ctx context.Context, cutoff models.Date) (removed map[string]int64, err error) {
	defer observe("trim", "all", time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		removed, err = trimTables(ctx, tx, cutoff)
		return err
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Str("cutoff", cutoff.String()).Interface("removed", removed).Msg("Archive trimmed")
	return removed, nil
}

func trimTables(ctx context.Context, tx *sql.Tx, cutoff models.Date) (map[string]int64, error) {
	removed := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE %s > ?", table, dateColumn[table]), dateArg(cutoff))
		if err != nil {
			return nil, fmt.Errorf("failed to trim %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to count trimmed rows in %s: %w", table, err)
		}
		removed[table] = n
	}
	return removed, nil
}

// RestoreFrom replaces every table with the contents of the archive at
// backupPath. Tables the backup lacks are left empty.
func (db *DB) RestoreFrom(ctx context.Context, backupPath string) (err error) {
	defer observe("restore", "all", time.Now(), &err)
	_, err = db.restore(ctx, backupPath, nil)
	return err
}

// RestoreThrough restores from backupPath and trims the restored rows dated
// after cutoff in the same transaction, so a failure leaves the archive as it
// was. The counts are rows removed from the restored tables.
func (db *DB) RestoreThrough(ctx context.Context, backupPath string, cutoff models.Date) (removed map[string]int64, err error) {
	defer observe("restore", "all", time.Now(), &err)
	return db.restore(ctx, backupPath, &cutoff)
}

func (db *DB) restore(ctx context.Context, backupPath string, cutoff *models.Date) (map[string]int64, error) {
	if _, err := os.Stat(backupPath); err != nil {
		return nil, fmt.Errorf("backup archive unavailable: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	// ATTACH is connection state, so the whole restore runs on one connection.
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer closeWithLog(conn, "connection")

	attach := fmt.Sprintf("ATTACH '%s' AS %s (READ_ONLY)", strings.ReplaceAll(backupPath, "'", "''"), backupAlias)
	if _, err := conn.ExecContext(ctx, attach); err != nil {
		return nil, fmt.Errorf("failed to attach backup: %w", err)
	}
	defer func() {
		if _, derr := conn.ExecContext(context.Background(), "DETACH "+backupAlias); derr != nil {
			logging.Warn().Err(derr).Msg("Failed to detach backup archive")
		}
	}()

	present := make(map[string]bool, len(Tables))
	rows, err := conn.QueryContext(ctx,
		"SELECT table_name FROM duckdb_tables() WHERE database_name = ? AND schema_name = 'main'", backupAlias)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup tables: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan backup table: %w", err)
		}
		present[name] = true
	}
	closeQuietly(rows)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, table := range Tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
		if !present[table] {
			logging.Warn().Str("table", table).Msg("Backup archive has no such table")
			continue
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s SELECT * FROM %s.main.%s", table, backupAlias, table)); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to restore %s: %w", table, err)
		}
	}

	var removed map[string]int64
	if cutoff != nil {
		if removed, err = trimTables(ctx, tx, *cutoff); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit restore: %w", err)
	}

	ev := logging.Info().Str("backup", backupPath)
	if cutoff != nil {
		ev = ev.Str("cutoff", cutoff.String()).Interface("removed", removed)
	}
	ev.Msg("Archive restored from backup")
	return removed, nil
}

// TableCounts returns the row count of every table.
func (db *DB) TableCounts(ctx context.Context) (counts map[string]int64, err error) {
	defer observe("count", "all", time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	counts = make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// DescriptionSpan returns the first and last described night. ok is false
// when no descriptions exist.
func (db *DB) DescriptionSpan(ctx context.Context) (first, last models.Date, ok bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var lo, hi sql.NullTime
	if err := db.conn.QueryRowContext(ctx, "SELECT MIN(prev_day), MAX(prev_day) FROM sleep_descriptions").Scan(&lo, &hi); err != nil {
		return models.Date{}, models.Date{}, false, fmt.Errorf("failed to query description span: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return models.Date{}, models.Date{}, false, nil
	}
	return scanDate(lo.Time), scanDate(hi.Time), true, nil
}

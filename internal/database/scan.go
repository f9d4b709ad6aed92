// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package database

import (
	"database/sql"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Argument and scan conversions between models and column types.

func dateArg(d models.Date) time.Time {
	return d.UTC()
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func secondsArg(d *time.Duration) any {
	if d == nil {
		return nil
	}
	return d.Seconds()
}

func boolArg(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func floatArg(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func scanDate(t time.Time) models.Date {
	return models.DateOf(t.UTC())
}

func (db *DB) scanTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.In(db.loc)
	return &t
}

func scanSeconds(v sql.NullFloat64) *time.Duration {
	if !v.Valid {
		return nil
	}
	d := time.Duration(v.Float64 * float64(time.Second))
	return &d
}

func scanBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func scanFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func scanString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

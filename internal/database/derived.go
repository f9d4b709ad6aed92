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

// DescriptionFilter selects sessions the way the dashboard does. All fields
// are optional and combine with AND; Days matches any listed weekday.
type DescriptionFilter struct {
	From    *models.Date
	To      *models.Date
	Days    []time.Weekday
	Workday *bool
}

func (f DescriptionFilter) where() (string, []any) {
	wb := query.NewWhereBuilder()
	var from, to *time.Time
	if f.From != nil {
		t := dateArg(*f.From)
		from = &t
	}
	if f.To != nil {
		t := dateArg(*f.To)
		to = &t
	}
	wb.AddDateRange("prev_day", from, to)
	if len(f.Days) > 0 {
		names := make([]string, len(f.Days))
		for i, d := range f.Days {
			names[i] = d.String()
		}
		wb.AddIn("day", names)
	}
	wb.AddBool("is_workday", f.Workday)
	return wb.Build()
}

// LoadDescriptions returns the session descriptions passing f, ordered by
// session id.
func (db *DB) LoadDescriptions(ctx context.Context, f DescriptionFilter) (table models.DescriptionTable, err error) {
	defer observe("load", TableDescriptions, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where, args := f.where()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT session_id, prev_day, awake_seconds, light_seconds, deep_seconds, total_seconds,
		       year, day, is_holiday, is_workday
		FROM sleep_descriptions
		WHERE `+where+`
		ORDER BY session_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep descriptions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	table = models.DescriptionTable{}
	for rows.Next() {
		var (
			row                       models.SessionDescription
			prevDay                   time.Time
			awake, light, deep, total sql.NullFloat64
		)
		if err := rows.Scan(&row.SessionID, &prevDay, &awake, &light, &deep, &total,
			&row.Year, &row.Day, &row.IsHoliday, &row.IsWorkday); err != nil {
			return nil, fmt.Errorf("failed to scan sleep description: %w", err)
		}
		row.PrevDay = scanDate(prevDay)
		row.Awake = scanSeconds(awake)
		row.Light = scanSeconds(light)
		row.Deep = scanSeconds(deep)
		row.Total = scanSeconds(total)
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sleep descriptions: %w", err)
	}
	return table, nil
}

// LoadDerivedDates returns the date of every description, ascending.
func (db *DB) LoadDerivedDates(ctx context.Context) (dates []models.Date, err error) {
	defer observe("load_dates", TableDescriptions, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT prev_day FROM sleep_descriptions ORDER BY prev_day`)
	if err != nil {
		return nil, fmt.Errorf("failed to query description dates: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan description date: %w", err)
		}
		dates = append(dates, scanDate(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate description dates: %w", err)
	}
	return dates, nil
}

// LoadEvents returns the events of every session passing f, ordered by
// session id then event name.
func (db *DB) LoadEvents(ctx context.Context, f DescriptionFilter) (table models.EventTable, err error) {
	defer observe("load", TableEvents, time.Now(), &err)
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where, args := f.where()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT session_id, prev_day, event, date_time, tod, date_time_str
		FROM sleep_events
		WHERE session_id IN (SELECT session_id FROM sleep_descriptions WHERE `+where+`)
		ORDER BY session_id, event`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep events: %w", err)
	}
	defer closeWithLog(rows, "rows")

	table = models.EventTable{}
	for rows.Next() {
		var (
			row     models.SleepEvent
			prevDay time.Time
			event   string
			when    sql.NullTime
			tod     sql.NullFloat64
			str     sql.NullString
		)
		if err := rows.Scan(&row.SessionID, &prevDay, &event, &when, &tod, &str); err != nil {
			return nil, fmt.Errorf("failed to scan sleep event: %w", err)
		}
		row.PrevDay = scanDate(prevDay)
		row.Event = models.EventKind(event)
		row.DateTime = db.scanTime(when)
		row.ToD = scanFloat(tod)
		row.DateTimeStr = scanString(str)
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sleep events: %w", err)
	}
	return table, nil
}

// ReplaceDerived validates and atomically replaces both derived tables.
func (db *DB) ReplaceDerived(ctx context.Context, descriptions models.DescriptionTable, events models.EventTable) (err error) {
	defer observe("replace", TableDescriptions, time.Now(), &err)
	if err := descriptions.Validate(); err != nil {
		return err
	}
	if err := events.Validate(); err != nil {
		return err
	}
	ids := descriptions.SessionIDs()
	for i := range events {
		if _, ok := ids[events[i].SessionID]; !ok {
			return fmt.Errorf("%w: event references unknown session %d", models.ErrSchema, events[i].SessionID)
		}
	}
	if len(events) != 2*len(descriptions) {
		return fmt.Errorf("%w: %d events for %d sessions", models.ErrSchema, len(events), len(descriptions))
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	const insertDescription = `INSERT INTO sleep_descriptions (
		session_id, prev_day, awake_seconds, light_seconds, deep_seconds, total_seconds,
		year, day, is_holiday, is_workday
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const insertEvent = `INSERT INTO sleep_events (
		session_id, prev_day, event, date_time, tod, date_time_str
	) VALUES (?, ?, ?, ?, ?, ?)`

	return db.withTx(ctx, func(tx *sql.Tx) error {
		err := replaceTable(ctx, tx, TableDescriptions, insertDescription, len(descriptions), func(i int) []any {
			d := &descriptions[i]
			return []any{
				d.SessionID, dateArg(d.PrevDay),
				secondsArg(d.Awake), secondsArg(d.Light), secondsArg(d.Deep), secondsArg(d.Total),
				d.Year, d.Day, d.IsHoliday, d.IsWorkday,
			}
		})
		if err != nil {
			return err
		}
		return replaceTable(ctx, tx, TableEvents, insertEvent, len(events), func(i int) []any {
			e := &events[i]
			return []any{
				e.SessionID, dateArg(e.PrevDay), string(e.Event),
				timeArg(e.DateTime), floatArg(e.ToD), stringArg(e.DateTimeStr),
			}
		})
	})
}

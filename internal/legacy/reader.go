// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package legacy

import (
	"context"
	"database/sql"
	"fmt"

	// DuckDB driver, used only for read_csv
	_ "github.com/duckdb/duckdb-go/v2"
)

const sleepRowsQuery = `
	SELECT
		"Date",
		"Start_Time",
		"Wake_Up_Time",
		"Seconds_Asleep_Light",
		"Seconds_Asleep_Restful",
		"Seconds_Awake"
	FROM read_csv(?, header = true, all_varchar = true)
	WHERE "Event_Type" = 'Sleep'`

// CSVReader reads activity-summary exports through an in-memory DuckDB.
type CSVReader struct {
	db *sql.DB
}

// NewCSVReader opens the in-memory DuckDB instance used for parsing.
func NewCSVReader() (*CSVReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &CSVReader{db: db}, nil
}

// ReadSleepRows returns the "Sleep" rows of the export at path in file
// order.
func (r *CSVReader) ReadSleepRows(ctx context.Context, path string, year int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, sleepRowsQuery, path)
	if err != nil {
		return nil, fmt.Errorf("read_csv %s: %w", path, err)
	}
	defer rows.Close() //nolint:errcheck // read-only result set

	var out []Record
	for rows.Next() {
		var date, start, wake, light, restful, awake sql.NullString
		if err := rows.Scan(&date, &start, &wake, &light, &restful, &awake); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		out = append(out, Record{
			Year:           year,
			Line:           len(out) + 1,
			Date:           nullable(date),
			StartTime:      nullable(start),
			WakeUpTime:     nullable(wake),
			LightSeconds:   nullable(light),
			RestfulSeconds: nullable(restful),
			AwakeSeconds:   nullable(awake),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", path, err)
	}
	return out, nil
}

// Close closes the DuckDB instance.
func (r *CSVReader) Close() error {
	return r.db.Close()
}

func nullable(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

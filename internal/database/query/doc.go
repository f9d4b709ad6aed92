// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package query provides parameterized WHERE clause construction for the
// archive store's filtered reads.
//
//	wb := query.NewWhereBuilder()
//	wb.AddDateRange("prev_day", filter.From, filter.To)
//	wb.AddIn("day", []string{"Monday", "Friday"})
//	wb.AddBool("is_workday", filter.Workday)
//	where, args := wb.BuildWithPrefix()
//	rows, err := conn.QueryContext(ctx, "SELECT ... FROM sleep_descriptions "+where, args...)
//
// Values are always bound as arguments; only column names, which come from
// the store itself, are interpolated.
package query

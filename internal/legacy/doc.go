// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package legacy reads the yearly activity-summary CSV exports of the
// wearable used before the current provider and maps their sleep rows onto
// nightly records.
//
// Files are named Activity_Summary_<Y>0101_<Y>1231.csv and are read through
// an in-memory DuckDB instance with read_csv, every column as VARCHAR so the
// mapper decides how to parse clock times and second counts. The files are
// never modified.
//
// Mapping rules:
//   - Date is the bed-night date, moved back one day when the session
//     started before noon (the session began after midnight).
//   - Start_Time and Wake_Up_Time are naive local clock times localized to
//     the configured legacy timezone; DST-ambiguous times become unknown.
//   - Total = Seconds_Awake + Seconds_Asleep_Light + Seconds_Asleep_Restful.
//   - Sessions shorter than four hours are naps and are dropped, as are
//     sessions whose total is unknown.
package legacy

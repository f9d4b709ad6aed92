// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package legacy

import (
	"fmt"
	"time"
)

// Record is one "Sleep" row of an activity-summary export, every field as
// read from the file. Nil means the cell was empty.
type Record struct {
	Year int // export file year
	Line int // 1-based data row within the file

	Date           *string
	StartTime      *string
	WakeUpTime     *string
	LightSeconds   *string
	RestfulSeconds *string
	AwakeSeconds   *string
}

// Stats summarizes one load of the legacy exports.
type Stats struct {
	Files        int
	MissingFiles int
	Rows         int
	Kept         int
	Naps         int
	UnknownTotal int
	Invalid      int
	StartTime    time.Time
	EndTime      time.Time
}

// Duration returns how long the load took.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// FileName returns the export file name for year.
func FileName(year int) string {
	return fmt.Sprintf("Activity_Summary_%d0101_%d1231.csv", year, year)
}

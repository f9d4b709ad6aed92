// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package calendar

import "time"

// TimeOfDay returns the clock time of t in its own location as decimal
// hours in (-12, 12]: hour + minute/60, minus 24 when above 12, so evening
// times become negative and midnight is continuous.
func TimeOfDay(t time.Time) float64 {
	return NormalizeHours(float64(t.Hour()) + float64(t.Minute())/60)
}

// NormalizeHours maps decimal hours in [0, 24) onto (-12, 12].
func NormalizeHours(h float64) float64 {
	if h > 12 {
		return h - 24
	}
	return h
}

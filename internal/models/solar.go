// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/validation"
)

// SolarRecord holds sunrise and sunset for one date in the local timezone.
type SolarRecord struct {
	Date       Date      `validate:"required"`
	Sunrise    time.Time `validate:"required"`
	SunriseToD float64   `validate:"gt=-12,lte=12"`
	Sunset     time.Time `validate:"required"`
	SunsetToD  float64   `validate:"gt=-12,lte=12"`
}

// SolarTable is the solar archive.
type SolarTable []SolarRecord

// Validate checks every row and date uniqueness.
func (t SolarTable) Validate() error {
	seen := make(map[Date]struct{}, len(t))
	for i := range t {
		if err := validation.ValidateStruct(&t[i]); err != nil {
			return fmt.Errorf("%w: solar %s: %v", ErrSchema, t[i].Date, err)
		}
		if _, dup := seen[t[i].Date]; dup {
			return fmt.Errorf("%w: duplicate solar date %s", ErrSchema, t[i].Date)
		}
		seen[t[i].Date] = struct{}{}
	}
	return nil
}

// DateSet returns the set of dates in the table.
func (t SolarTable) DateSet() map[Date]struct{} {
	out := make(map[Date]struct{}, len(t))
	for i := range t {
		out[t[i].Date] = struct{}{}
	}
	return out
}

// Sort orders the table by date.
func (t SolarTable) Sort() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Date.Before(t[j].Date) })
}

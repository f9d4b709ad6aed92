// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/validation"
)

// ErrSchema marks a table that violates its schema or invariants.
var ErrSchema = errors.New("schema violation")

// MaxNightDuration bounds a single session's total duration.
const MaxNightDuration = 24 * time.Hour

// Source identifies which device family produced a NightRecord.
type Source string

const (
	SourceGarmin Source = "garmin"
	SourceLegacy Source = "legacy"
)

// NightRecord is one sleep session attributed to the night the person went
// to bed. Nil pointers are unknown values: a record whose fields are all nil
// is a placeholder for a night the provider had no data for.
type NightRecord struct {
	PrevDay  Date       `validate:"required"`
	BedTime  *time.Time
	WakeTime *time.Time

	Awake *time.Duration
	Light *time.Duration
	Deep  *time.Duration
	Total *time.Duration
	Nap   *time.Duration

	WindowConfirmed *bool
	Source          Source `validate:"oneof=garmin legacy"`
}

// Placeholder returns an all-null record for d.
func Placeholder(d Date, src Source) NightRecord {
	return NightRecord{PrevDay: d, Source: src}
}

// HasTotal reports whether the total duration is known.
func (n *NightRecord) HasTotal() bool {
	return n.Total != nil
}

func (n *NightRecord) validate() error {
	if err := validation.ValidateStruct(n); err != nil {
		return fmt.Errorf("%w: night %s: %v", ErrSchema, n.PrevDay, err)
	}
	if n.Total != nil && (*n.Total < 0 || *n.Total > MaxNightDuration) {
		return fmt.Errorf("%w: night %s: total duration %v outside [0, 24h]", ErrSchema, n.PrevDay, *n.Total)
	}
	for name, d := range map[string]*time.Duration{"awake": n.Awake, "light": n.Light, "deep": n.Deep, "nap": n.Nap} {
		if d != nil && *d < 0 {
			return fmt.Errorf("%w: night %s: negative %s duration", ErrSchema, n.PrevDay, name)
		}
	}
	return nil
}

// NightTable is an ordered collection of NightRecords.
type NightTable []NightRecord

// Sort orders the table by PrevDay ascending. Ties keep their relative
// order.
func (t NightTable) Sort() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].PrevDay.Before(t[j].PrevDay) })
}

// Dates returns the PrevDay of every row in table order.
func (t NightTable) Dates() []Date {
	out := make([]Date, len(t))
	for i := range t {
		out[i] = t[i].PrevDay
	}
	return out
}

// DateSet returns the set of PrevDays in the table.
func (t NightTable) DateSet() map[Date]struct{} {
	out := make(map[Date]struct{}, len(t))
	for i := range t {
		out[t[i].PrevDay] = struct{}{}
	}
	return out
}

// Has reports whether the table holds a record for d.
func (t NightTable) Has(d Date) bool {
	for i := range t {
		if t[i].PrevDay == d {
			return true
		}
	}
	return false
}

// Span returns the first and last PrevDay. ok is false for an empty table.
func (t NightTable) Span() (first, last Date, ok bool) {
	if len(t) == 0 {
		return Date{}, Date{}, false
	}
	first, last = t[0].PrevDay, t[0].PrevDay
	for i := range t {
		if t[i].PrevDay.Before(first) {
			first = t[i].PrevDay
		}
		if t[i].PrevDay.After(last) {
			last = t[i].PrevDay
		}
	}
	return first, last, true
}

// Validate checks every record. A table that crossed the merge boundary is
// additionally required to be sorted with unique dates; pass archive=true
// for those.
func (t NightTable) Validate(archive bool) error {
	for i := range t {
		if err := t[i].validate(); err != nil {
			return err
		}
		if archive && i > 0 && !t[i-1].PrevDay.Before(t[i].PrevDay) {
			return fmt.Errorf("%w: archive not strictly ascending at %s", ErrSchema, t[i].PrevDay)
		}
	}
	return nil
}

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

// EventKind is the type of a SleepEvent row.
type EventKind string

const (
	FellAsleep EventKind = "Fell Asleep"
	WokeUp     EventKind = "Woke Up"
)

// EventDisplayLayout renders event times as e.g. "March 01, 2017, 11:42:00 PM".
const EventDisplayLayout = "January 02, 2006, 03:04:05 PM"

// SessionDescription is the per-night description row.
type SessionDescription struct {
	SessionID int64 `validate:"min=0"`
	PrevDay   Date  `validate:"required"`

	Awake *time.Duration
	Light *time.Duration
	Deep  *time.Duration
	Total *time.Duration

	Year      int    `validate:"min=1900"`
	Day       string `validate:"weekday"`
	IsHoliday bool
	IsWorkday bool
}

// SleepEvent is one bed or wake event of a session. DateTime, ToD and
// DateTimeStr are nil together when the session's time is unknown.
type SleepEvent struct {
	SessionID   int64     `validate:"min=0"`
	PrevDay     Date      `validate:"required"`
	Event       EventKind `validate:"oneof='Fell Asleep' 'Woke Up'"`
	DateTime    *time.Time
	ToD         *float64
	DateTimeStr *string
}

// DescriptionTable is ordered by SessionID.
type DescriptionTable []SessionDescription

// EventTable is ordered by (SessionID, Event).
type EventTable []SleepEvent

// Validate checks rows, ascending ids and unique dates.
func (t DescriptionTable) Validate() error {
	seen := make(map[Date]struct{}, len(t))
	for i := range t {
		row := &t[i]
		if err := validation.ValidateStruct(row); err != nil {
			return fmt.Errorf("%w: description %d: %v", ErrSchema, row.SessionID, err)
		}
		if i > 0 && t[i-1].SessionID >= row.SessionID {
			return fmt.Errorf("%w: session ids not ascending at %d", ErrSchema, row.SessionID)
		}
		if _, dup := seen[row.PrevDay]; dup {
			return fmt.Errorf("%w: duplicate description date %s", ErrSchema, row.PrevDay)
		}
		seen[row.PrevDay] = struct{}{}
		if row.Day != row.PrevDay.Weekday().String() {
			return fmt.Errorf("%w: %s labelled %s", ErrSchema, row.PrevDay, row.Day)
		}
	}
	return nil
}

// Validate checks rows and that every session has exactly one event of each
// kind, with consistent nullability.
func (t EventTable) Validate() error {
	kinds := make(map[int64]map[EventKind]int)
	for i := range t {
		row := &t[i]
		if err := validation.ValidateStruct(row); err != nil {
			return fmt.Errorf("%w: event %d: %v", ErrSchema, row.SessionID, err)
		}
		if (row.DateTime == nil) != (row.ToD == nil) || (row.DateTime == nil) != (row.DateTimeStr == nil) {
			return fmt.Errorf("%w: event %d %s has partially null fields", ErrSchema, row.SessionID, row.Event)
		}
		if row.ToD != nil && (*row.ToD <= -12 || *row.ToD > 12) {
			return fmt.Errorf("%w: event %d time of day %v outside (-12, 12]", ErrSchema, row.SessionID, *row.ToD)
		}
		if kinds[row.SessionID] == nil {
			kinds[row.SessionID] = make(map[EventKind]int, 2)
		}
		kinds[row.SessionID][row.Event]++
	}
	for id, k := range kinds {
		if k[FellAsleep] != 1 || k[WokeUp] != 1 {
			return fmt.Errorf("%w: session %d has %d fell-asleep and %d woke-up events", ErrSchema, id, k[FellAsleep], k[WokeUp])
		}
	}
	return nil
}

// Sort orders events by (SessionID, Event). "Fell Asleep" sorts before
// "Woke Up".
func (t EventTable) Sort() {
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].SessionID != t[j].SessionID {
			return t[i].SessionID < t[j].SessionID
		}
		return t[i].Event < t[j].Event
	})
}

// Sort orders descriptions by SessionID.
func (t DescriptionTable) Sort() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].SessionID < t[j].SessionID })
}

// SessionIDs returns the set of session ids present in the table.
func (t DescriptionTable) SessionIDs() map[int64]struct{} {
	out := make(map[int64]struct{}, len(t))
	for i := range t {
		out[t[i].SessionID] = struct{}{}
	}
	return out
}

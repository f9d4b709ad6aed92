// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package legacy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/calendar"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// NapThreshold is the total duration below which a daytime session is a nap.
const NapThreshold = 4 * time.Hour

// ErrInvalidRecord marks a row whose Date cell cannot be parsed.
var ErrInvalidRecord = errors.New("invalid legacy record")

// Outcome classifies a mapped row.
type Outcome int

const (
	Kept Outcome = iota
	Nap
	UnknownTotal
)

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
}

var clockLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
}

// Mapper converts export rows into nightly records.
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a mapper localizing clock times to loc.
func NewMapper(loc *time.Location) *Mapper {
	return &Mapper{loc: loc}
}

// ToNight maps rec. The record is only meaningful when the outcome is Kept.
func (m *Mapper) ToNight(rec *Record) (models.NightRecord, Outcome, error) {
	if rec.Date == nil {
		return models.NightRecord{}, UnknownTotal, fmt.Errorf("%w: %d line %d: empty Date", ErrInvalidRecord, rec.Year, rec.Line)
	}
	day, err := parseDate(*rec.Date)
	if err != nil {
		return models.NightRecord{}, UnknownTotal, fmt.Errorf("%w: %d line %d: %v", ErrInvalidRecord, rec.Year, rec.Line, err)
	}

	night := models.Placeholder(day, models.SourceLegacy)
	night.BedTime = m.localize(rec.StartTime)
	night.WakeTime = m.localize(rec.WakeUpTime)
	night.Light = parseSeconds(rec.LightSeconds)
	night.Deep = parseSeconds(rec.RestfulSeconds)
	night.Awake = parseSeconds(rec.AwakeSeconds)

	if night.BedTime != nil && night.BedTime.Hour() < 12 {
		night.PrevDay = night.PrevDay.AddDays(-1)
	}

	if night.Awake == nil || night.Light == nil || night.Deep == nil {
		return night, UnknownTotal, nil
	}
	total := *night.Awake + *night.Light + *night.Deep
	night.Total = &total

	if isNap(&night) {
		return night, Nap, nil
	}
	return night, Kept, nil
}

// Night bed times fall in [NightStartToD, NightEndToD) on the time-of-day
// axis, i.e. from 21:00 up to 07:00 local.
const (
	NightStartToD = -3.0
	NightEndToD   = 7.0
)

// isNap reports a short session that began during the day.
func isNap(n *models.NightRecord) bool {
	if n.Total == nil || *n.Total >= NapThreshold || n.BedTime == nil {
		return false
	}
	tod := calendar.TimeOfDay(*n.BedTime)
	return tod < NightStartToD || tod >= NightEndToD
}

// localize parses a naive clock time in the mapper's zone. Times that occur
// twice at a DST fall-back are unknown.
func (m *Mapper) localize(s *string) *time.Time {
	if s == nil {
		return nil
	}
	raw := strings.TrimSpace(*s)
	for _, layout := range clockLayouts {
		wall, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, m.loc)
		if ambiguous(t) {
			return nil
		}
		return &t
	}
	return nil
}

func ambiguous(t time.Time) bool {
	for _, shift := range []time.Duration{-time.Hour, time.Hour} {
		o := t.Add(shift)
		if o.Hour() == t.Hour() && o.Minute() == t.Minute() && o.Day() == t.Day() {
			return true
		}
	}
	return false
}

func parseDate(s string) (models.Date, error) {
	raw := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.DateOf(t), nil
		}
	}
	return models.Date{}, fmt.Errorf("unrecognized date %q", s)
}

func parseSeconds(s *string) *time.Duration {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || v < 0 {
		return nil
	}
	d := time.Duration(v * float64(time.Second))
	return &d
}

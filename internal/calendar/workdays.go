// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package calendar

import (
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Period is an inclusive date window.
type Period struct {
	Start models.Date
	End   models.Date
}

// Contains reports whether d lies in the window.
func (p Period) Contains(d models.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Options describe the personal calendar.
type Options struct {
	// WeekendDays are bed-night weekdays that are never workdays.
	WeekendDays []time.Weekday
	// LeavePeriods are extended non-workday windows.
	LeavePeriods []Period
	// ChristmasBefore and ChristmasAfter widen every December holiday into a
	// vacation window.
	ChristmasBefore int
	ChristmasAfter  int
}

// AdjustHolidays applies the personal holiday policy to the federal set: the
// day after Thanksgiving is added, February and October holidays are
// dropped, and so are November holidays before the 20th (Veterans Day).
func AdjustHolidays(federal []Holiday) []Holiday {
	out := make([]Holiday, 0, len(federal)+2)
	for _, h := range federal {
		if h.Date.Month == time.November && h.Date.Day > 20 {
			out = append(out, h, Holiday{Date: h.Date.AddDays(1), Name: "Day after " + h.Name})
			continue
		}
		switch {
		case h.Date.Month == time.February, h.Date.Month == time.October:
			continue
		case h.Date.Month == time.November && h.Date.Day < 20:
			continue
		}
		out = append(out, h)
	}
	return out
}

// WorkCalendar classifies dates in one derivation range.
type WorkCalendar struct {
	weekend  map[time.Weekday]bool
	holidays map[models.Date]string
	vacation map[models.Date]struct{}
	leave    []Period
}

// NewWorkCalendar builds the calendar for nights in [start, end].
func NewWorkCalendar(start, end models.Date, opts Options) *WorkCalendar {
	c := &WorkCalendar{
		weekend:  make(map[time.Weekday]bool, len(opts.WeekendDays)),
		holidays: make(map[models.Date]string),
		vacation: make(map[models.Date]struct{}),
		leave:    opts.LeavePeriods,
	}
	for _, wd := range opts.WeekendDays {
		c.weekend[wd] = true
	}

	for _, h := range AdjustHolidays(FederalHolidays(start, end)) {
		c.holidays[h.Date] = h.Name
		if h.Date.Month != time.December {
			continue
		}
		for k := 1; k <= opts.ChristmasBefore; k++ {
			c.vacation[h.Date.AddDays(-k)] = struct{}{}
		}
		for k := 1; k <= opts.ChristmasAfter; k++ {
			c.vacation[h.Date.AddDays(k)] = struct{}{}
		}
	}
	return c
}

// IsWeekend reports whether d is a weekend bed-night.
func (c *WorkCalendar) IsWeekend(d models.Date) bool {
	return c.weekend[d.Weekday()]
}

// IsHoliday reports whether d is a holiday. The weekend flag wins: a
// holiday on a weekend night is not reported.
func (c *WorkCalendar) IsHoliday(d models.Date) bool {
	if c.IsWeekend(d) {
		return false
	}
	_, ok := c.holidays[d]
	return ok
}

// HolidayName returns the holiday name for d, or "".
func (c *WorkCalendar) HolidayName(d models.Date) string {
	return c.holidays[d]
}

// InNonWorkWindow reports whether d is in a vacation or leave window.
func (c *WorkCalendar) InNonWorkWindow(d models.Date) bool {
	if _, ok := c.vacation[d]; ok {
		return true
	}
	for _, p := range c.leave {
		if p.Contains(d) {
			return true
		}
	}
	return false
}

// IsWorkday reports whether the bed-night d preceded a working day.
func (c *WorkCalendar) IsWorkday(d models.Date) bool {
	if c.IsWeekend(d) {
		return false
	}
	return !c.IsHoliday(d) && !c.InNonWorkWindow(d)
}

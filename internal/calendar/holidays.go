// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package calendar

import (
	"sort"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// holidayRule produces the (observed) holiday of a given year, or ok=false
// when the holiday did not exist that year.
type holidayRule struct {
	name string
	date func(year int) (models.Date, bool)
}

// federalRules mirrors the standard US federal holiday calendar. Fixed-date
// holidays move to the nearest weekday when they fall on a weekend.
var federalRules = []holidayRule{
	{"New Year's Day", fixed(time.January, 1)},
	{"Martin Luther King Jr. Day", since(1986, nthWeekday(time.January, time.Monday, 3))},
	{"Presidents Day", nthWeekday(time.February, time.Monday, 3)},
	{"Memorial Day", lastWeekday(time.May, time.Monday)},
	{"Juneteenth", since(2021, fixed(time.June, 19))},
	{"Independence Day", fixed(time.July, 4)},
	{"Labor Day", nthWeekday(time.September, time.Monday, 1)},
	{"Columbus Day", nthWeekday(time.October, time.Monday, 2)},
	{"Veterans Day", fixed(time.November, 11)},
	{"Thanksgiving Day", nthWeekday(time.November, time.Thursday, 4)},
	{"Christmas Day", fixed(time.December, 25)},
}

// Holiday is one observed holiday.
type Holiday struct {
	Date models.Date
	Name string
}

// FederalHolidays returns the observed US federal holidays in [start, end],
// ascending.
func FederalHolidays(start, end models.Date) []Holiday {
	if end.Before(start) {
		return nil
	}
	var out []Holiday
	// Observance can push New Year's Day into the previous December.
	for year := start.Year - 1; year <= end.Year+1; year++ {
		for _, r := range federalRules {
			d, ok := r.date(year)
			if !ok || d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, Holiday{Date: d, Name: r.name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// nearestWeekday moves Saturday to Friday and Sunday to Monday.
func nearestWeekday(d models.Date) models.Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(-1)
	case time.Sunday:
		return d.AddDays(1)
	default:
		return d
	}
}

func fixed(month time.Month, day int) func(int) (models.Date, bool) {
	return func(year int) (models.Date, bool) {
		return nearestWeekday(models.NewDate(year, month, day)), true
	}
}

func nthWeekday(month time.Month, wd time.Weekday, n int) func(int) (models.Date, bool) {
	return func(year int) (models.Date, bool) {
		first := models.NewDate(year, month, 1)
		offset := (int(wd) - int(first.Weekday()) + 7) % 7
		return first.AddDays(offset + 7*(n-1)), true
	}
}

func lastWeekday(month time.Month, wd time.Weekday) func(int) (models.Date, bool) {
	return func(year int) (models.Date, bool) {
		last := models.NewDate(year, month+1, 0)
		offset := (int(last.Weekday()) - int(wd) + 7) % 7
		return last.AddDays(-offset), true
	}
}

func since(firstYear int, rule func(int) (models.Date, bool)) func(int) (models.Date, bool) {
	return func(year int) (models.Date, bool) {
		if year < firstYear {
			return models.Date{}, false
		}
		return rule(year)
	}
}

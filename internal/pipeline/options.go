// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"fmt"

	"github.com/buckeye17/sleepwithdash/internal/calendar"
	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/models"
	"github.com/buckeye17/sleepwithdash/internal/validation"
)

// CalendarOptions converts the workday configuration. Leave periods without
// an end run through end.
func CalendarOptions(w *config.WorkdaysConfig, end models.Date) (calendar.Options, error) {
	opts := calendar.Options{
		ChristmasBefore: w.ChristmasBefore,
		ChristmasAfter:  w.ChristmasAfter,
	}
	for _, name := range w.WeekendDays {
		wd, ok := validation.ParseWeekday(name)
		if !ok {
			return calendar.Options{}, fmt.Errorf("unknown weekday %q", name)
		}
		opts.WeekendDays = append(opts.WeekendDays, wd)
	}
	for _, lp := range w.LeavePeriods {
		start, err := models.ParseDate(lp.Start)
		if err != nil {
			return calendar.Options{}, fmt.Errorf("leave period start: %w", err)
		}
		stop := end
		if lp.End != "" {
			if stop, err = models.ParseDate(lp.End); err != nil {
				return calendar.Options{}, fmt.Errorf("leave period end: %w", err)
			}
		}
		opts.LeavePeriods = append(opts.LeavePeriods, calendar.Period{Start: start, End: stop})
	}
	return opts, nil
}

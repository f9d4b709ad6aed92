// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

// Normalize converts raw provider entries to night records in loc. The
// provider files a night under its wake date, so PrevDay is one day
// earlier. Requested dates with no entry become placeholders so they are
// not requested again.
func Normalize(raw []intsync.RawNight, requested []models.Date, loc *time.Location) (models.NightTable, error) {
	out := make(models.NightTable, 0, len(raw)+len(requested))
	for i := range raw {
		n, err := normalizeOne(&raw[i], loc)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	have := out.DateSet()
	for _, d := range requested {
		if _, ok := have[d]; !ok {
			out = append(out, models.Placeholder(d, models.SourceGarmin))
		}
	}

	if err := out.Validate(false); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeOne(r *intsync.RawNight, loc *time.Location) (models.NightRecord, error) {
	cal, err := models.ParseDate(r.CalendarDate)
	if err != nil {
		return models.NightRecord{}, fmt.Errorf("%w: calendarDate %q: %v", models.ErrSchema, r.CalendarDate, err)
	}
	return models.NightRecord{
		PrevDay:         cal.AddDays(-1),
		BedTime:         epochMillis(r.SleepStartTimestampGMT, loc),
		WakeTime:        epochMillis(r.SleepEndTimestampGMT, loc),
		Awake:           seconds(r.AwakeSleepSeconds),
		Light:           seconds(r.LightSleepSeconds),
		Deep:            seconds(r.DeepSleepSeconds),
		Total:           seconds(r.SleepTimeSeconds),
		Nap:             seconds(r.NapTimeSeconds),
		WindowConfirmed: r.SleepWindowConfirmed,
		Source:          models.SourceGarmin,
	}, nil
}

func epochMillis(ms *int64, loc *time.Location) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).In(loc)
	return &t
}

func seconds(s *int64) *time.Duration {
	if s == nil {
		return nil
	}
	d := time.Duration(*s) * time.Second
	return &d
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/calendar"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

// Step 4 messages.
const (
	msgSolarDownloaded = "New sunrise and sunset data has been downloaded"
	msgSolarUpToDate   = "Sunrise and sunset data is up to date"
)

// MissingSolarDates returns the dates with no solar record, in input order.
func MissingSolarDates(dates []models.Date, solar models.SolarTable) []models.Date {
	have := solar.DateSet()
	var missing []models.Date
	for _, d := range dates {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// SyncAlmanac fetches sunrise and sunset for every date missing from solar
// and returns the extended, date-sorted table with the number of rows added.
// Requests are sequential; the first failure aborts and nothing is
// returned.
func SyncAlmanac(ctx context.Context, almanac intsync.AlmanacProvider, dates []models.Date, solar models.SolarTable, loc *time.Location) (models.SolarTable, int, error) {
	missing := MissingSolarDates(dates, solar)
	if len(missing) == 0 {
		return solar, 0, nil
	}

	out := make(models.SolarTable, 0, len(solar)+len(missing))
	out = append(out, solar...)
	for i, d := range missing {
		st, err := almanac.SunTimes(ctx, d)
		if err != nil {
			return nil, 0, fmt.Errorf("sun times for %s: %w", d, err)
		}
		out = append(out, solarRecord(st, loc))
		if (i+1)%100 == 0 {
			logging.Ctx(ctx).Info().Int("done", i+1).Int("total", len(missing)).Msg("Almanac progress")
		}
	}
	out.Sort()
	if err := out.Validate(); err != nil {
		return nil, 0, err
	}
	return out, len(missing), nil
}

func solarRecord(st *intsync.SunTimes, loc *time.Location) models.SolarRecord {
	rise := st.Sunrise.In(loc)
	set := st.Sunset.In(loc)
	return models.SolarRecord{
		Date:       st.Date,
		Sunrise:    rise,
		SunriseToD: calendar.TimeOfDay(rise),
		Sunset:     set,
		SunsetToD:  calendar.TimeOfDay(set),
	}
}

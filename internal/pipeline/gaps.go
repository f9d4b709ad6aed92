// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Step 0 messages.
const (
	msgUpToDate     = "Archived data is up to date, no new data is available"
	msgNightsNeeded = "Current data was checked and %d night(s) are needed"
)

// DetectGaps returns the dates of r missing from archive, ascending, and a
// summary message. An empty result means the archive is up to date.
func DetectGaps(r Range, archive models.NightTable) (string, []models.Date) {
	have := archive.DateSet()
	var missing []models.Date
	for _, d := range r.Dates() {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return msgUpToDate, nil
	}
	return fmt.Sprintf(msgNightsNeeded, len(missing)), missing
}

// ResolveRange builds the sync range from the configured dates. An empty
// end means yesterday relative to now in loc.
func ResolveRange(start, end string, now time.Time, loc *time.Location) (Range, error) {
	s, err := models.ParseDate(start)
	if err != nil {
		return Range{}, fmt.Errorf("start date: %w", err)
	}
	var e models.Date
	if end == "" {
		e = models.DateOf(now.In(loc)).AddDays(-1)
	} else if e, err = models.ParseDate(end); err != nil {
		return Range{}, fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end date %s before start date %s", e, s)
	}
	return Range{Start: s, End: e}, nil
}

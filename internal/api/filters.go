// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/database"
	"github.com/buckeye17/sleepwithdash/internal/models"
	"github.com/buckeye17/sleepwithdash/internal/validation"
)

// parseDateRange reads the optional from/to parameters. from after to is
// rejected.
func parseDateRange(q url.Values) (from, to *models.Date, err error) {
	if from, err = parseDateParam(q, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = parseDateParam(q, "to"); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("from %s is after to %s", from, to)
	}
	return from, to, nil
}

func parseDateParam(q url.Values, name string) (*models.Date, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return &d, nil
}

// parseDescriptionFilter builds the dashboard filter from query parameters:
// from, to, days (comma separated weekday names) and workday (boolean).
func parseDescriptionFilter(q url.Values) (database.DescriptionFilter, error) {
	var f database.DescriptionFilter

	from, to, err := parseDateRange(q)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to

	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		seen := make(map[time.Weekday]bool)
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			wd, ok := validation.ParseWeekday(name)
			if !ok {
				return f, fmt.Errorf("unknown day %q", name)
			}
			if !seen[wd] {
				seen[wd] = true
				f.Days = append(f.Days, wd)
			}
		}
	}

	if raw := strings.TrimSpace(q.Get("workday")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("workday must be true or false")
		}
		f.Workday = &b
	}

	return f, nil
}

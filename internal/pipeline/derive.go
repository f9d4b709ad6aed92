// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/calendar"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// DeriveOptions control feature derivation.
type DeriveOptions struct {
	Calendar calendar.Options
	Location *time.Location

	// PriorIDs, when non-nil, keeps the session id of every date it lists;
	// new dates get ids above the current maximum. When nil, ids are the
	// row positions of the date-sorted table.
	PriorIDs map[models.Date]int64
}

// Derived is the output of Derive.
type Derived struct {
	Descriptions models.DescriptionTable
	Events       models.EventTable
	Dates        []models.Date
	SessionIDs   map[models.Date]int64
}

// Derive fills calendar gaps in the unioned nights, assigns session ids and
// splits the result into the description and event tables.
func Derive(unioned models.NightTable, opts DeriveOptions) (*Derived, error) {
	first, last, ok := unioned.Span()
	if !ok {
		return &Derived{
			Descriptions: models.DescriptionTable{},
			Events:       models.EventTable{},
			SessionIDs:   map[models.Date]int64{},
		}, nil
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[models.Date]*models.NightRecord, len(unioned))
	for i := range unioned {
		if _, dup := byDate[unioned[i].PrevDay]; dup {
			return nil, fmt.Errorf("%w: duplicate night %s in derivation input", models.ErrSchema, unioned[i].PrevDay)
		}
		byDate[unioned[i].PrevDay] = &unioned[i]
	}

	dates := models.DateRange(first, last)
	ids := assignSessionIDs(dates, opts.PriorIDs)
	cal := calendar.NewWorkCalendar(first, last, opts.Calendar)

	out := &Derived{
		Descriptions: make(models.DescriptionTable, 0, len(dates)),
		Events:       make(models.EventTable, 0, 2*len(dates)),
		Dates:        dates,
		SessionIDs:   ids,
	}
	for _, d := range dates {
		n, ok := byDate[d]
		if !ok {
			p := models.Placeholder(d, models.SourceGarmin)
			n = &p
		}
		id := ids[d]
		out.Descriptions = append(out.Descriptions, models.SessionDescription{
			SessionID: id,
			PrevDay:   d,
			Awake:     n.Awake,
			Light:     n.Light,
			Deep:      n.Deep,
			Total:     n.Total,
			Year:      d.Year,
			Day:       d.Weekday().String(),
			IsHoliday: cal.IsHoliday(d),
			IsWorkday: cal.IsWorkday(d),
		})
		out.Events = append(out.Events,
			newEvent(id, d, models.FellAsleep, n.BedTime, loc),
			newEvent(id, d, models.WokeUp, n.WakeTime, loc),
		)
	}

	out.Descriptions.Sort()
	out.Events.Sort()

	if err := out.Descriptions.Validate(); err != nil {
		return nil, err
	}
	if err := out.Events.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// assignSessionIDs gives each date an id. Without prior ids the id is the
// row position; with them, known dates keep theirs and new dates continue
// from the maximum in date order. The returned map also keeps prior dates
// outside dates so their ids stay reserved.
func assignSessionIDs(dates []models.Date, prior map[models.Date]int64) map[models.Date]int64 {
	ids := make(map[models.Date]int64, len(dates))
	if prior == nil {
		for i, d := range dates {
			ids[d] = int64(i)
		}
		return ids
	}

	next := int64(0)
	for d, id := range prior {
		ids[d] = id
		if id >= next {
			next = id + 1
		}
	}
	for _, d := range dates {
		if id, ok := prior[d]; ok {
			ids[d] = id
			continue
		}
		ids[d] = next
		next++
	}
	return ids
}

func newEvent(id int64, d models.Date, kind models.EventKind, at *time.Time, loc *time.Location) models.SleepEvent {
	e := models.SleepEvent{SessionID: id, PrevDay: d, Event: kind}
	if at == nil {
		return e
	}
	local := at.In(loc)
	tod := calendar.TimeOfDay(local)
	str := local.Format(models.EventDisplayLayout)
	e.DateTime = &local
	e.ToD = &tod
	e.DateTimeStr = &str
	return e
}

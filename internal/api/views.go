// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package api

import (
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

// DescriptionView is a session description with durations in hours.
type DescriptionView struct {
	SessionID  int64       `json:"session_id"`
	PrevDay    models.Date `json:"prev_day"`
	AwakeHours *float64    `json:"awake_hours"`
	LightHours *float64    `json:"light_hours"`
	DeepHours  *float64    `json:"deep_hours"`
	TotalHours *float64    `json:"total_hours"`
	Year       int         `json:"year"`
	Day        string      `json:"day"`
	IsHoliday  bool        `json:"is_holiday"`
	IsWorkday  bool        `json:"is_workday"`
}

// EventView is one bed or wake event.
type EventView struct {
	SessionID   int64       `json:"session_id"`
	PrevDay     models.Date `json:"prev_day"`
	Event       string      `json:"event"`
	DateTime    *time.Time  `json:"datetime"`
	ToD         *float64    `json:"tod"`
	DateTimeStr *string     `json:"datetime_str"`
}

// SolarView is one day of the solar archive.
type SolarView struct {
	Date       models.Date `json:"date"`
	Sunrise    time.Time   `json:"sunrise"`
	SunriseToD float64     `json:"sunrise_tod"`
	Sunset     time.Time   `json:"sunset"`
	SunsetToD  float64     `json:"sunset_tod"`
}

// Summary describes the stored dataset.
type Summary struct {
	Tables    map[string]int64 `json:"tables"`
	FirstDate *models.Date     `json:"first_date,omitempty"`
	LastDate  *models.Date     `json:"last_date,omitempty"`
}

func hours(d *time.Duration) *float64 {
	if d == nil {
		return nil
	}
	h := d.Hours()
	return &h
}

func descriptionViews(table models.DescriptionTable) []DescriptionView {
	out := make([]DescriptionView, len(table))
	for i := range table {
		row := &table[i]
		out[i] = DescriptionView{
			SessionID:  row.SessionID,
			PrevDay:    row.PrevDay,
			AwakeHours: hours(row.Awake),
			LightHours: hours(row.Light),
			DeepHours:  hours(row.Deep),
			TotalHours: hours(row.Total),
			Year:       row.Year,
			Day:        row.Day,
			IsHoliday:  row.IsHoliday,
			IsWorkday:  row.IsWorkday,
		}
	}
	return out
}

func eventViews(table models.EventTable) []EventView {
	out := make([]EventView, len(table))
	for i := range table {
		row := &table[i]
		out[i] = EventView{
			SessionID:   row.SessionID,
			PrevDay:     row.PrevDay,
			Event:       string(row.Event),
			DateTime:    row.DateTime,
			ToD:         row.ToD,
			DateTimeStr: row.DateTimeStr,
		}
	}
	return out
}

func solarViews(table models.SolarTable) []SolarView {
	out := make([]SolarView, len(table))
	for i, row := range table {
		out[i] = SolarView{
			Date:       row.Date,
			Sunrise:    row.Sunrise,
			SunriseToD: row.SunriseToD,
			Sunset:     row.Sunset,
			SunsetToD:  row.SunsetToD,
		}
	}
	return out
}

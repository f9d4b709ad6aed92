// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

// Steps of a run, in execution order.
const (
	StepDetect = iota
	StepLogin
	StepFetch
	StepTransform
	StepAlmanac

	stepCount
)

// Stage names used in progress events, errors and metrics.
const (
	StageDetect    = "detect_gaps"
	StageLogin     = "login"
	StageFetch     = "fetch"
	StageTransform = "transform"
	StageAlmanac   = "almanac"
)

var stageNames = [stepCount]string{StageDetect, StageLogin, StageFetch, StageTransform, StageAlmanac}

// Range is an inclusive date range.
type Range struct {
	Start models.Date
	End   models.Date
}

// Dates lists every day in the range.
func (r Range) Dates() []models.Date {
	return models.DateRange(r.Start, r.End)
}

// RunContext carries one run's inputs and each stage's outputs. A new one is
// created for every run; nothing survives between runs except storage.
type RunContext struct {
	RunID     string
	StartedAt time.Time
	Range     Range
	Location  *time.Location

	// Step 0
	Archive models.NightTable
	Missing []models.Date

	// Steps 1 and 2
	Session *intsync.Session
	Raw     []intsync.RawNight

	// Step 3
	Normalized   models.NightTable
	Merged       models.NightTable
	Unioned      models.NightTable
	Descriptions models.DescriptionTable
	Events       models.EventTable
	DerivedDates []models.Date
	NightsAdded  int

	// Step 4
	Solar      models.SolarTable
	SolarAdded int

	// Messages holds one line per completed step.
	Messages []string
}

// NewRunContext starts a run over r.
func NewRunContext(runID string, r Range, loc *time.Location) *RunContext {
	return &RunContext{
		RunID:     runID,
		StartedAt: time.Now(),
		Range:     r,
		Location:  loc,
	}
}

// UpToDate reports whether gap detection found nothing to fetch.
func (rc *RunContext) UpToDate() bool {
	return len(rc.Missing) == 0
}

func (rc *RunContext) addMessage(msg string) {
	rc.Messages = append(rc.Messages, msg)
}

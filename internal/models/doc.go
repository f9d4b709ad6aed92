// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package models defines the typed records and tables that flow through the
sync pipeline and out of the archive store.

Records:

  - NightRecord: one sleep session from one source, attributed to the night
    the person went to bed (PrevDay)
  - SessionDescription: derived per-night durations and calendar features
  - SleepEvent: derived per-event rows, two per session
  - SolarRecord: sunrise and sunset for one date

Every record carries a civil Date rather than a time.Time so that date
identity never depends on a clock or a timezone.

Tables are ordered slices with a Validate method. Each pipeline stage
validates the tables it receives and the tables it produces; a violation
wraps ErrSchema.
*/
package models

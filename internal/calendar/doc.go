// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package calendar computes the date features attached to each night: the
// US federal holiday set, the personal workday calendar built on top of it,
// and the signed decimal time-of-day used for plotting clock times.
package calendar

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package validation wraps a singleton go-playground/validator instance.
//
// It is used in three places: configuration loading, API query parameters,
// and the typed record tables that cross pipeline stage boundaries. Besides
// the built-in tags it registers:
//
//   - civildate: a YYYY-MM-DD string
//   - timezone:  a name accepted by time.LoadLocation
//   - weekday:   an English weekday name such as "Friday"
package validation

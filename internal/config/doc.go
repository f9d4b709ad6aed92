// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package config loads and validates sleepwithdash configuration.

Configuration is layered with koanf v2: built-in defaults, then an optional
YAML file, then environment variables. Only the environment names listed in
envMappings are read.

# Environment Variables

Provider:
  - GARMIN_LOGIN_MODE: form or static (default: form)
  - GARMIN_USERNAME, GARMIN_PASSWORD: credentials for form login
  - GARMIN_COOKIE, GARMIN_SESSION_ID: browser session for static login
  - GARMIN_LOGIN_TIMEOUT: ceiling for session acquisition (default: 60s)
  - GARMIN_MAX_WINDOW_DAYS: widest request span (default: 31)

Pipeline:
  - SYNC_START_DATE: first night to sync (default: 2017-03-01)
  - SYNC_END_DATE: last night to sync (default: yesterday)
  - LOCAL_TIMEZONE: display timezone (default: US/Eastern)
  - LEGACY_DIR, LEGACY_YEARS: legacy activity summary CSVs
  - STABLE_SESSION_IDS: keep session ids stable across runs

Almanac:
  - ALMANAC_URL, ALMANAC_LATITUDE, ALMANAC_LONGITUDE

Storage and server:
  - DUCKDB_PATH (default: data/sleep.duckdb)
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8050)
  - LOG_LEVEL, LOG_FORMAT, SENTRY_DSN

Leave periods are list-of-struct values and are set in the YAML file:

	workdays:
	  leave_periods:
	    - start: 2019-10-28
	      end: ""
*/
package config

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package api serves the dashboard backend over HTTP.

Routes are mounted on a chi router:

	GET  /api/v1/health          database ping
	GET  /api/v1/descriptions    session descriptions
	GET  /api/v1/events          bed and wake events
	GET  /api/v1/solar           sunrise and sunset archive
	GET  /api/v1/summary         table counts and date span
	POST /api/v1/sync            start a sync run (202, or 409 when one is in flight)
	GET  /api/v1/sync/status     current or last run
	GET  /ws/sync                live progress stream
	GET  /metrics                Prometheus exposition
	GET  /swagger/*              OpenAPI document and UI (package docs)

Descriptions and events accept the dashboard filters as query parameters:

	from=2020-01-01&to=2020-12-31&days=Monday,Friday&workday=true

Every read handler loads from storage on each request. Responses use a
common envelope:

	{"status":"success","data":...,"metadata":{"timestamp":"...","count":42}}
	{"status":"error","error":{"code":"BAD_REQUEST","message":"..."},"metadata":{...}}
*/
package api

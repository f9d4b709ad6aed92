// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package metrics provides the Prometheus collectors for sleepwithdash.

All collectors are registered on the default registry through promauto and
are exported at GET /metrics by the API router:

	curl http://localhost:8050/metrics

# Available Metrics

Sync pipeline:
  - sleepwithdash_sync_runs_total{result}
  - sleepwithdash_sync_stage_duration_seconds{stage}
  - sleepwithdash_sync_last_success_timestamp
  - sleepwithdash_sync_nights_fetched_total
  - sleepwithdash_sync_missing_dates

Upstream providers and resilience:
  - sleepwithdash_provider_requests_total{provider,status}
  - sleepwithdash_provider_request_duration_seconds{provider}
  - sleepwithdash_circuit_breaker_state{name}
  - sleepwithdash_circuit_breaker_requests_total{name,result}
  - sleepwithdash_circuit_breaker_transitions_total{name,from,to}

Storage and API:
  - sleepwithdash_db_query_duration_seconds{operation,table}
  - sleepwithdash_db_query_errors_total{operation,table}
  - sleepwithdash_api_requests_total{route,status}
  - sleepwithdash_api_request_duration_seconds{route}
  - sleepwithdash_api_active_requests
  - sleepwithdash_websocket_connections
  - sleepwithdash_websocket_messages_sent_total
*/
package metrics

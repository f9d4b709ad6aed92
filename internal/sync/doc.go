// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package sync holds the network collaborators of the sleep pipeline: session
acquisition for the sleep provider, the daily sleep data client and the
sunrise/sunset almanac client.

Key Components:

  - SessionAcquirer: returns a Session (headers plus token). FormLoginAcquirer
    signs in with credentials and scrapes the token from the sleep page;
    StaticSessionAcquirer reuses a browser session from configuration.
  - GarminClient: SleepProvider fetching one date range per request.
  - AlmanacClient: AlmanacProvider, rate limited with golang.org/x/time/rate.
  - CircuitBreakerClient / CircuitBreakerAlmanac: sony/gobreaker wrappers
    reporting state to Prometheus.

Payload Decoding:

Responses are decoded according to Content-Encoding (br, gzip, deflate). A
body that still does not look like JSON is retried with the other decoders
before ErrUndecodablePayload is returned.

Errors:

  - *ProviderError: non-success status with the provider's message
  - ErrAuthFailed: session acquisition failed
  - ErrCircuitOpen: a breaker rejected the request

No call is retried here. Chunking, ordering and retry policy belong to the
pipeline.
*/
package sync

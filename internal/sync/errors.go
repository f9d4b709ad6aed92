// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed is returned when no usable session could be obtained.
	ErrAuthFailed = errors.New("session acquisition failed")

	// ErrCircuitOpen is returned when a provider breaker rejects a request.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrUndecodablePayload is returned when a response body is neither JSON
	// nor any compressed encoding we know how to unpack.
	ErrUndecodablePayload = errors.New("undecodable provider payload")
)

// Provider names used in errors, logs and metric labels.
const (
	ProviderGarmin  = "garmin"
	ProviderAlmanac = "almanac"
)

// ProviderError is a non-success response from an upstream provider. Message
// carries the provider's own explanation verbatim when it sent one.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/buckeye17/sleepwithdash/internal/metrics"
)

// maxErrorBodySize bounds how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// doRequest executes req and records the exchange in provider metrics.
func doRequest(client *http.Client, provider string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := client.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.RecordProviderRequest(provider, status, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	return resp, nil
}

// readBodyForError reads up to maxErrorBodySize bytes for error reporting.
func readBodyForError(body io.Reader) []byte {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return b
}

// providerError builds a ProviderError from a non-success response, taking
// the message from the named JSON field of the body when present.
func providerError(provider string, resp *http.Response, field string) *ProviderError {
	perr := &ProviderError{Provider: provider, StatusCode: resp.StatusCode}
	body := readBodyForError(resp.Body)
	if len(body) == 0 {
		return perr
	}
	decoded, err := decodePayload(body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return perr
	}
	var fields map[string]any
	if err := json.Unmarshal(decoded, &fields); err != nil {
		return perr
	}
	if v, ok := fields[field]; ok && v != nil {
		perr.Message = fmt.Sprint(v)
	}
	return perr
}

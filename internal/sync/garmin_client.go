// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// RawNight is one entry of the provider's daily sleep payload. Every field
// except CalendarDate may be null. Raw keeps the entry exactly as received.
type RawNight struct {
	SleepStartTimestampGMT *int64 `json:"sleepStartTimestampGMT"`
	SleepEndTimestampGMT   *int64 `json:"sleepEndTimestampGMT"`
	CalendarDate           string `json:"calendarDate"`
	DeepSleepSeconds       *int64 `json:"deepSleepSeconds"`
	LightSleepSeconds      *int64 `json:"lightSleepSeconds"`
	SleepTimeSeconds       *int64 `json:"sleepTimeSeconds"`
	AwakeSleepSeconds      *int64 `json:"awakeSleepSeconds"`
	NapTimeSeconds         *int64 `json:"napTimeSeconds"`
	SleepWindowConfirmed   *bool  `json:"sleepWindowConfirmed"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and retains the original bytes.
func (n *RawNight) UnmarshalJSON(b []byte) error {
	type plain RawNight
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = RawNight(p)
	n.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// SleepProvider fetches raw nightly records for an inclusive date range.
type SleepProvider interface {
	FetchRange(ctx context.Context, s *Session, start, end models.Date) ([]RawNight, error)
}

// GarminClient implements SleepProvider against the daily sleeps endpoint.
type GarminClient struct {
	client  *http.Client
	dataURL string
}

// NewGarminClient creates a client with the configured request timeout.
func NewGarminClient(cfg *config.ProviderConfig) *GarminClient {
	return &GarminClient{
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		dataURL: cfg.DataURL,
	}
}

// FetchRange requests [start, end] with the session's headers and token.
// A non-200 response becomes a *ProviderError carrying the body's message.
func (c *GarminClient) FetchRange(ctx context.Context, s *Session, start, end models.Date) ([]RawNight, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no session", ErrAuthFailed)
	}

	params := url.Values{}
	params.Set("startDate", start.String())
	params.Set("endDate", end.String())
	params.Set("_", s.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dataURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range s.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := doRequest(c.client, ProviderGarmin, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(ProviderGarmin, resp, "message")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDecodedPayload))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", ProviderGarmin, err)
	}
	payload, err := decodePayload(body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}

	var nights []RawNight
	if err := json.Unmarshal(payload, &nights); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", ProviderGarmin, err)
	}

	logging.Debug().
		Str("provider", ProviderGarmin).
		Str("start", start.String()).
		Str("end", end.String()).
		Int("nights", len(nights)).
		Msg("Fetched sleep range")
	return nights, nil
}

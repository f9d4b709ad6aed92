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
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// almanacClockLayout is the provider's formatted clock time, e.g. "11:16:35 AM".
const almanacClockLayout = "3:04:05 PM"

// SunTimes are one day's sunrise and sunset as UTC instants.
type SunTimes struct {
	Date    models.Date
	Sunrise time.Time
	Sunset  time.Time
}

// AlmanacProvider looks up sunrise and sunset for a date.
type AlmanacProvider interface {
	SunTimes(ctx context.Context, date models.Date) (*SunTimes, error)
}

// almanacResponse.Results is an empty string on errors, so it is decoded
// only after Status has been checked.
type almanacResponse struct {
	Results json.RawMessage `json:"results"`
	Status  string          `json:"status"`
}

type almanacResults struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// AlmanacClient queries the sunrise-sunset API for a fixed location.
type AlmanacClient struct {
	client    *http.Client
	baseURL   string
	latitude  float64
	longitude float64
	limiter   *rate.Limiter
}

// NewAlmanacClient creates a rate limited client.
func NewAlmanacClient(cfg *config.AlmanacConfig) *AlmanacClient {
	return &AlmanacClient{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:   cfg.BaseURL,
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// SunTimes implements AlmanacProvider. The provider answers in UTC clock
// times without a date, so both are placed on date in UTC.
func (c *AlmanacClient) SunTimes(ctx context.Context, date models.Date) (*SunTimes, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("almanac rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	params.Set("date", date.String())
	params.Set("formatted", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(c.client, ProviderAlmanac, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(ProviderAlmanac, resp, "status")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", ProviderAlmanac, err)
	}
	var ar almanacResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", ProviderAlmanac, err)
	}
	if ar.Status != "OK" {
		return nil, &ProviderError{Provider: ProviderAlmanac, StatusCode: resp.StatusCode, Message: ar.Status}
	}

	var res almanacResults
	if err := json.Unmarshal(ar.Results, &res); err != nil {
		return nil, fmt.Errorf("decode %s results: %w", ProviderAlmanac, err)
	}

	sunrise, err := clockOn(date, res.Sunrise)
	if err != nil {
		return nil, fmt.Errorf("sunrise for %s: %w", date, err)
	}
	sunset, err := clockOn(date, res.Sunset)
	if err != nil {
		return nil, fmt.Errorf("sunset for %s: %w", date, err)
	}
	return &SunTimes{Date: date, Sunrise: sunrise, Sunset: sunset}, nil
}

// clockOn places a 12-hour clock time on date in UTC.
func clockOn(date models.Date, clock string) (time.Time, error) {
	t, err := time.Parse(almanacClockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year, date.Month, date.Day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

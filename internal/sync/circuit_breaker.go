// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/metrics"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Breaker names, also used as metric labels.
const (
	GarminBreakerName  = "garmin-api"
	AlmanacBreakerName = "almanac-api"
)

// breakerMinRequests is the sample size required before the failure ratio
// can open a breaker. Sync runs are short, so it is small.
const breakerMinRequests = 3

// breaker guards calls returning T. The breaker uses real time for its
// interval and timeout; tests exercise the wrapped clients directly or trip
// the breaker with consecutive failures.
type breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// newBreaker configures:
//   - 1 trial request in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens at a 60% failure rate over at least breakerMinRequests requests
func newBreaker[T any](name string) *breaker[T] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("Opening circuit")
				return true
			}
			return false
		},
		// Cancellation says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
	return &breaker[T]{cb: cb, name: name}
}

// execute runs fn through the breaker. Rejections wrap ErrCircuitOpen.
func (b *breaker[T]) execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("Request rejected")
			var zero T
			return zero, fmt.Errorf("%w: %s: %w", ErrCircuitOpen, b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return result, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// State returns the current breaker state name.
func (b *breaker[T]) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreakerClient wraps a SleepProvider with a circuit breaker.
type CircuitBreakerClient struct {
	next SleepProvider
	cb   *breaker[[]RawNight]
}

// NewCircuitBreakerClient wraps next.
func NewCircuitBreakerClient(next SleepProvider) *CircuitBreakerClient {
	return &CircuitBreakerClient{next: next, cb: newBreaker[[]RawNight](GarminBreakerName)}
}

// FetchRange implements SleepProvider.
func (c *CircuitBreakerClient) FetchRange(ctx context.Context, s *Session, start, end models.Date) ([]RawNight, error) {
	return c.cb.execute(func() ([]RawNight, error) {
		return c.next.FetchRange(ctx, s, start, end)
	})
}

// State returns the breaker state name.
func (c *CircuitBreakerClient) State() string { return c.cb.State() }

// CircuitBreakerAlmanac wraps an AlmanacProvider with a circuit breaker.
type CircuitBreakerAlmanac struct {
	next AlmanacProvider
	cb   *breaker[*SunTimes]
}

// NewCircuitBreakerAlmanac wraps next.
func NewCircuitBreakerAlmanac(next AlmanacProvider) *CircuitBreakerAlmanac {
	return &CircuitBreakerAlmanac{next: next, cb: newBreaker[*SunTimes](AlmanacBreakerName)}
}

// SunTimes implements AlmanacProvider.
func (c *CircuitBreakerAlmanac) SunTimes(ctx context.Context, date models.Date) (*SunTimes, error) {
	return c.cb.execute(func() (*SunTimes, error) {
		return c.next.SunTimes(ctx, date)
	})
}

// State returns the breaker state name.
func (c *CircuitBreakerAlmanac) State() string { return c.cb.State() }

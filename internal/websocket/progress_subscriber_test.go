// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/buckeye17/sleepwithdash/internal/pipeline"
)

func TestProgressSubscriberForwardsEvents(t *testing.T) {
	t.Parallel()

	hub := setupHub(t)
	client := createTestClient(hub)
	registerClient(t, hub, client)

	bus := pipeline.NewEventBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	sub := NewProgressSubscriber(hub, bus)
	errCh := make(chan error, 1)
	go func() { errCh <- sub.Serve(ctx) }()

	// Events published before the subscription exists are dropped, so keep
	// publishing until one arrives. A malformed event precedes each one.
	deadline := time.Now().Add(2 * time.Second)
	for client.pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no progress event forwarded")
		}
		junk := message.NewMessage(watermill.NewUUID(), []byte("not json"))
		if err := bus.Publish(pipeline.TopicProgress, junk); err != nil {
			t.Fatal(err)
		}
		msg, err := pipeline.EncodeProgress(&pipeline.Progress{
			RunID:   "run-1",
			Step:    pipeline.StepFetch,
			Stage:   pipeline.StageFetch,
			Status:  pipeline.StatusCompleted,
			Message: "Data has been downloaded from Garmin",
			Percent: 60,
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := bus.Publish(pipeline.TopicProgress, msg); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := receive(t, client)
	if got.Type != MessageTypeSyncProgress {
		t.Fatalf("type = %q", got.Type)
	}
	p, ok := got.Data.(*pipeline.Progress)
	if !ok || p.RunID != "run-1" || p.Percent != 60 {
		t.Errorf("data = %#v", got.Data)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestProgressSubscriberName(t *testing.T) {
	t.Parallel()

	if got := NewProgressSubscriber(NewHub(), nil).String(); got != "progress-subscriber" {
		t.Errorf("String() = %q", got)
	}
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package websocket

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/pipeline"
)

// ProgressSubscriber forwards pipeline progress events from the event bus
// to the hub. It implements suture.Service.
type ProgressSubscriber struct {
	hub        *Hub
	subscriber message.Subscriber
}

// NewProgressSubscriber bridges subscriber's progress topic to hub.
func NewProgressSubscriber(hub *Hub, subscriber message.Subscriber) *ProgressSubscriber {
	return &ProgressSubscriber{hub: hub, subscriber: subscriber}
}

// Serve subscribes to pipeline.TopicProgress and broadcasts every event
// until ctx is canceled or the subscription closes.
func (s *ProgressSubscriber) Serve(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, pipeline.TopicProgress)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", pipeline.TopicProgress, err)
	}
	logging.Info().Str("topic", pipeline.TopicProgress).Msg("progress to websocket subscriber started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("progress to websocket subscriber stopped")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", pipeline.TopicProgress)
			}
			s.handleMessage(msg)
		}
	}
}

// handleMessage acks every message; an undecodable event is logged and
// skipped rather than redelivered.
func (s *ProgressSubscriber) handleMessage(msg *message.Message) {
	defer msg.Ack()

	p, err := pipeline.DecodeProgress(msg)
	if err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("failed to decode progress event")
		return
	}
	s.hub.BroadcastSyncProgress(p)
}

// String implements fmt.Stringer for suture logs.
func (s *ProgressSubscriber) String() string {
	return "progress-subscriber"
}

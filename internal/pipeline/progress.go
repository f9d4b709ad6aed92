// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/buckeye17/sleepwithdash/internal/logging"
)

// TopicProgress carries Progress events of every run.
const TopicProgress = "sync.progress"

// Progress statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Progress is one step update of a run.
type Progress struct {
	RunID     string    `json:"run_id"`
	Step      int       `json:"step"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Percent   int       `json:"percent"`
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventBus returns the in-process pub/sub carrying progress events.
// Publishing waits for subscriber acks so events arrive in step order.
func NewEventBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, logging.NewWatermillLogger())
}

// EncodeProgress wraps p in a watermill message.
func EncodeProgress(p *Progress) (*message.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("run_id", p.RunID)
	msg.Metadata.Set("stage", p.Stage)
	return msg, nil
}

// DecodeProgress reads a Progress from a message payload.
func DecodeProgress(msg *message.Message) (*Progress, error) {
	var p Progress
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &p, nil
}

func percentAfter(step int) int {
	return (step + 1) * 100 / stepCount
}

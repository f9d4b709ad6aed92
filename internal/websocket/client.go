// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/buckeye17/sleepwithdash/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send pings

	// maxQueued bounds the frames other than progress waiting for one
	// client. Progress frames never queue: the newest replaces the pending one.
	maxQueued = 64
)

// clientIDCounter orders clients for broadcasts.
var clientIDCounter atomic.Uint64

// Client is one subscriber of the progress feed.
//
// Progress events are snapshots of the run, so a client that falls behind
// skips straight to the newest one instead of being disconnected. Other
// frames (pong) are queued in order up to maxQueued.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn

	mu       sync.Mutex
	queue    []Message
	progress *Message
	closed   bool

	wake chan struct{}
	done chan struct{}
}

// NewClient creates a client for conn. It does nothing until Start.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// ID returns the client's broadcast order key.
func (c *Client) ID() uint64 {
	return c.id
}

// deliver hands msg to the write loop. It reports false when the client is
// closed or its queue is full.
func (c *Client) deliver(msg Message) bool {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return false
	case msg.Type == MessageTypeSyncProgress:
		m := msg
		c.progress = &m
	case len(c.queue) >= maxQueued:
		c.mu.Unlock()
		return false
	default:
		c.queue = append(c.queue, msg)
	}
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// drain takes every pending frame: queued frames first, then the latest
// progress snapshot.
func (c *Client) drain() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.queue
	c.queue = nil
	if c.progress != nil {
		out = append(out, *c.progress)
		c.progress = nil
	}
	return out
}

func (c *Client) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.queue)
	if c.progress != nil {
		n++
	}
	return n
}

// close stops the write loop. Safe to call more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// readPump answers pings and unregisters the client when the connection
// ends. Anything else a client sends is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close")
			}
			return
		}
		var msg Message
		if json.Unmarshal(data, &msg) == nil && msg.Type == MessageTypePing {
			c.deliver(Message{Type: MessageTypePong})
		}
	}
}

// writePump writes pending frames and keeps the connection alive with
// pings. It sends a close frame once the hub closes the client.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.wake:
			for _, msg := range c.drain() {
				if !c.write(msg) {
					return
				}
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(msg Message) bool {
	frame, err := MarshalMessage(msg)
	if err != nil {
		logging.Error().Err(err).Str("message_type", msg.Type).Msg("failed to encode websocket message")
		return true
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket write failed")
		return false
	}
	return true
}

// Start runs the read and write loops.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

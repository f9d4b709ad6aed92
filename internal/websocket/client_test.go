// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// setupWebSocketServer creates a test WebSocket server with a custom handler
func setupWebSocketServer(t *testing.T, handler func(t *testing.T, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()
		handler(t, conn)
	}))
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

// waitForChannel waits for a channel signal with timeout
func waitForChannel(t *testing.T, ch <-chan bool, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Errorf("%s: timeout after %v", msg, timeout)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if b.ID() <= a.ID() {
		t.Errorf("client ids not increasing: %d then %d", a.ID(), b.ID())
	}
	if cap(a.wake) != 1 {
		t.Errorf("wake buffer = %d, want 1", cap(a.wake))
	}
	if a.pending() != 0 {
		t.Errorf("new client has %d pending frames", a.pending())
	}
}

func TestClient_Deliver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		messages  []Message
		wantTypes []string
		wantLast  any
	}{
		{
			name: "progress coalesces to newest",
			messages: []Message{
				{Type: MessageTypeSyncProgress, Data: 1},
				{Type: MessageTypeSyncProgress, Data: 2},
				{Type: MessageTypeSyncProgress, Data: 3},
			},
			wantTypes: []string{MessageTypeSyncProgress},
			wantLast:  3,
		},
		{
			name: "queued frames precede progress",
			messages: []Message{
				{Type: MessageTypeSyncProgress, Data: 1},
				{Type: MessageTypePong},
				{Type: MessageTypeSyncProgress, Data: 2},
			},
			wantTypes: []string{MessageTypePong, MessageTypeSyncProgress},
			wantLast:  2,
		},
		{
			name:      "pongs keep order",
			messages:  []Message{{Type: MessageTypePong, Data: "a"}, {Type: MessageTypePong, Data: "b"}},
			wantTypes: []string{MessageTypePong, MessageTypePong},
			wantLast:  "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClient(NewHub(), nil)
			for _, m := range tt.messages {
				if !c.deliver(m) {
					t.Fatalf("deliver(%v) = false", m)
				}
			}
			got := c.drain()
			if len(got) != len(tt.wantTypes) {
				t.Fatalf("drained %d frames, want %d", len(got), len(tt.wantTypes))
			}
			for i, m := range got {
				if m.Type != tt.wantTypes[i] {
					t.Errorf("frame %d = %q, want %q", i, m.Type, tt.wantTypes[i])
				}
			}
			if last := got[len(got)-1].Data; last != tt.wantLast {
				t.Errorf("last data = %v, want %v", last, tt.wantLast)
			}
			if c.pending() != 0 {
				t.Errorf("pending after drain = %d", c.pending())
			}
		})
	}
}

func TestClient_DeliverRejects(t *testing.T) {
	t.Parallel()

	full := NewClient(NewHub(), nil)
	for i := 0; i < maxQueued; i++ {
		full.deliver(Message{Type: MessageTypePong})
	}
	if full.deliver(Message{Type: MessageTypePong}) {
		t.Error("full queue accepted another frame")
	}
	if !full.deliver(Message{Type: MessageTypeSyncProgress}) {
		t.Error("full queue rejected a progress frame")
	}

	closed := NewClient(NewHub(), nil)
	closed.close()
	closed.close()
	if closed.deliver(Message{Type: MessageTypeSyncProgress}) {
		t.Error("closed client accepted a frame")
	}
}

func TestClient_Constants(t *testing.T) {
	t.Parallel()

	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be below pongWait %v", pingPeriod, pongWait)
	}
	if maxMessageSize != 4*1024 {
		t.Errorf("maxMessageSize = %d, want 4096", maxMessageSize)
	}
	if maxQueued < 1 {
		t.Errorf("maxQueued = %d, want positive", maxQueued)
	}
}

func TestClient_WritePump_SendMessage(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	messageReceived := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("Failed to read message: %v", err)
			return
		}
		if msg.Type != MessageTypeSyncProgress {
			t.Errorf("Expected message type %q, got %q", MessageTypeSyncProgress, msg.Type)
		}
		messageReceived <- true
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	go client.writePump()

	client.deliver(Message{Type: MessageTypeSyncProgress, Data: map[string]int{"step": 1}})
	waitForChannel(t, messageReceived, time.Second, "Message not received")
}

func TestClient_ReadPump_PingPong(t *testing.T) {
	t.Parallel()

	hub := setupHub(t)
	receivedPong := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			t.Errorf("Failed to write ping: %v", err)
			return
		}
		var pong Message
		if err := conn.ReadJSON(&pong); err != nil {
			t.Errorf("Failed to read pong: %v", err)
			return
		}
		if pong.Type == MessageTypePong {
			receivedPong <- true
		}
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	hub.Register <- client
	client.Start()

	waitForChannel(t, receivedPong, time.Second, "Pong not received")
}

func TestClient_ReadPump_ConnectionClose(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	unregistered := make(chan bool, 1)
	go func() {
		select {
		case <-hub.Unregister:
			unregistered <- true
		case <-time.After(2 * time.Second):
		}
	}()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		conn.Close()
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)
	go client.readPump()

	waitForChannel(t, unregistered, time.Second, "Client not unregistered after connection close")
}

func TestClient_Integration(t *testing.T) {
	t.Parallel()

	hub := setupHub(t)
	messagesReceived := make(chan Message, 10)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			messagesReceived <- msg
		}
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	registerClient(t, hub, client)
	client.Start()

	hub.BroadcastSyncProgress(map[string]string{"stage": "almanac"})

	select {
	case msg := <-messagesReceived:
		if msg.Type != MessageTypeSyncProgress {
			t.Errorf("Expected message type %q, got %q", MessageTypeSyncProgress, msg.Type)
		}
	case <-time.After(time.Second):
		t.Error("Message not received within timeout")
	}
}

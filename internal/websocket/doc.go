// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package websocket streams sync progress to dashboard clients.

Key Components:

  - Hub: registers clients and fans out messages in client id order
  - Client: one connection with a read pump (pings) and a write pump
  - ProgressSubscriber: suture service forwarding pipeline.Progress events
    from the watermill event bus to the hub

Architecture:

	pipeline.Runner --publish--> event bus (sync.progress)
	                                   |
	                           ProgressSubscriber
	                                   |
	                                  Hub --> Client1, Client2, ...

Message Types:

  - sync_progress: one pipeline step update (step, stage, status, message,
    percent). The last one is replayed to clients that connect mid-run.
  - ping / pong: client keepalive

A client that falls behind only ever holds the newest progress frame, so a
slow dashboard skips ahead instead of being dropped. Pongs queue per client
and a client whose queue fills up is disconnected. The hub runs under the supervisor through
RunWithContext and closes every client on shutdown.
*/
package websocket

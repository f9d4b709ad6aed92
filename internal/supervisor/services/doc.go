// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package services adapts long-running components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete type:
//
//	HTTPServerService    HTTPServer (*http.Server)
//	SyncService          StartStopManager (*pipeline.Runner)
//	WebSocketHubService  ContextHub (*websocket.Hub)
//
// Every Serve returns ctx.Err() after a clean shutdown and a wrapped error
// otherwise, which suture treats as a crash to restart.
package services

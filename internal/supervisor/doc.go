// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package supervisor runs the server's long-lived services under suture v4.

	RootSupervisor ("sleepwithdash")
	├── SyncSupervisor ("sync-layer")
	│   ├── WebSocketHubService
	│   ├── ProgressSubscriber
	│   └── SyncService (pipeline runner)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog with the zerolog-backed slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSyncService(services.NewWebSocketHubService(hub))
	tree.AddSyncService(websocket.NewProgressSubscriber(hub, bus))
	tree.AddSyncService(services.NewSyncService(runner))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Service wrappers live in the services subpackage.
*/
package supervisor

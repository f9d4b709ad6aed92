// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Command sleepctl operates the sleep archive from the shell.
//
//	sleepctl sync                         run one sync in the foreground
//	sleepctl trim --through 2020-06-30    drop rows dated after the cutoff
//	sleepctl status                       table counts and date span
//	sleepctl serve                        run the server
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

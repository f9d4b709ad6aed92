// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buckeye17/sleepwithdash/internal/app"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync in the foreground",
		Long: `Run the full pipeline once: detect missing nights, log in, download them,
rebuild the derived tables and fetch sunrise and sunset for new dates.

Exits non-zero when the run fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := a.RunOnce(cmd.Context())
			if rc != nil {
				printResult(cmd, opts.outputFormat, syncResult{
					RunID:       rc.RunID,
					NightsAdded: rc.NightsAdded,
					SolarAdded:  rc.SolarAdded,
					Messages:    rc.Messages,
				})
			}
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			return nil
		},
	}
}

type syncResult struct {
	RunID       string   `json:"run_id"`
	NightsAdded int      `json:"nights_added"`
	SolarAdded  int      `json:"solar_added"`
	Messages    []string `json:"messages"`
}

func (r syncResult) text() string {
	out := fmt.Sprintf("run %s\n", r.RunID)
	for _, m := range r.Messages {
		out += "  " + m + "\n"
	}
	return out
}

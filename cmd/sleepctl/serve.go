// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"github.com/spf13/cobra"

	"github.com/buckeye17/sleepwithdash/internal/app"
	"github.com/buckeye17/sleepwithdash/internal/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the sync runner",
		Args:  cobra.NoArgs,
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

			logging.Info().Str("version", app.Version).Msg("Starting sleepwithdash server")
			return a.Serve(cmd.Context())
		},
	}
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buckeye17/sleepwithdash/internal/app"
	"github.com/buckeye17/sleepwithdash/internal/config"
)

type rootOptions struct {
	cfgFile      string
	logLevel     string
	outputFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sleepctl",
		Short: "Sync and maintain the sleep archive",
		Long: `sleepctl keeps a personal sleep archive in sync with Garmin Connect.

A sync detects the nights missing from the archive, logs in, downloads them,
merges them with the historical exports, derives the dashboard tables and
fetches sunrise and sunset for any new dates.`,
		Version:      app.Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./config.yaml or /etc/sleepwithdash/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")
	cmd.PersistentFlags().StringVarP(&opts.outputFormat, "output", "o", "text", "output format: text or json")

	cmd.AddCommand(
		newSyncCmd(opts),
		newTrimCmd(opts),
		newStatusCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// loadConfig loads configuration honoring --config and --log-level and
// initializes logging.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.outputFormat != "text" && o.outputFormat != "json" {
		return nil, fmt.Errorf("unknown output format %q", o.outputFormat)
	}
	if o.cfgFile != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, o.cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	app.InitLogging(cfg)
	return cfg, nil
}

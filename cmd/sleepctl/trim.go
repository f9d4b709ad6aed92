// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckeye17/sleepwithdash/internal/app"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

func newTrimCmd(opts *rootOptions) *cobra.Command {
	var through, from string

	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Drop archive rows dated after a cutoff",
		Long: `Trim every table to rows dated on or before --through; the cutoff date
itself is kept. With --from the tables are first replaced by the ones in a
backup database, which makes it possible to roll the archive back to a known
state and re-sync from there. Restore and trim commit together: on failure
the archive is unchanged.`,
		Example: `  sleepctl trim --through 2024-03-31
  sleepctl trim --through 2024-03-31 --from /backups/sleep-2024-04-01.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoff, err := models.ParseDate(through)
			if err != nil {
				return fmt.Errorf("invalid --through: %w", err)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			db, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			var removed map[string]int64
			if from != "" {
				removed, err = db.RestoreThrough(ctx, from, cutoff)
			} else {
				removed, err = db.TrimAfter(ctx, cutoff)
			}
			if err != nil {
				return err
			}
			printResult(cmd, opts.outputFormat, trimResult{
				Cutoff:   cutoff,
				Restored: from,
				Removed:  removed,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&through, "through", "", "keep rows dated on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "", "restore tables from this backup database before trimming")
	_ = cmd.MarkFlagRequired("through")
	return cmd
}

type trimResult struct {
	Cutoff   models.Date      `json:"cutoff"`
	Restored string           `json:"restored_from,omitempty"`
	Removed  map[string]int64 `json:"removed"`
}

func (r trimResult) text() string {
	var b strings.Builder
	if r.Restored != "" {
		fmt.Fprintf(&b, "restored from %s\n", r.Restored)
	}
	fmt.Fprintf(&b, "kept rows through %s\n", r.Cutoff)
	for _, name := range sortedKeys(r.Removed) {
		fmt.Fprintf(&b, "  %-20s %d removed\n", name, r.Removed[name])
	}
	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

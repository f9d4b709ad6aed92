// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckeye17/sleepwithdash/internal/app"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show table counts and the archived date span",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			counts, err := db.TableCounts(ctx)
			if err != nil {
				return err
			}
			res := statusResult{Path: cfg.Database.Path, Tables: counts}
			first, last, ok, err := db.DescriptionSpan(ctx)
			if err != nil {
				return err
			}
			if ok {
				res.FirstDate, res.LastDate = &first, &last
			}
			printResult(cmd, opts.outputFormat, res)
			return nil
		},
	}
}

type statusResult struct {
	Path      string           `json:"path"`
	Tables    map[string]int64 `json:"tables"`
	FirstDate *models.Date     `json:"first_date,omitempty"`
	LastDate  *models.Date     `json:"last_date,omitempty"`
}

func (r statusResult) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "archive %s\n", r.Path)
	if r.FirstDate != nil {
		fmt.Fprintf(&b, "nights  %s .. %s\n", r.FirstDate, r.LastDate)
	} else {
		b.WriteString("nights  none\n")
	}
	for _, name := range sortedKeys(r.Tables) {
		fmt.Fprintf(&b, "  %-20s %d\n", name, r.Tables[name])
	}
	return b.String()
}

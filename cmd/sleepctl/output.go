// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type texter interface {
	text() string
}

// printResult writes v to the command's stdout as indented JSON or as its
// text form.
func printResult(cmd *cobra.Command, format string, v texter) {
	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "encode output: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(data))
		return
	}
	fmt.Fprint(out, v.text())
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// setupEnv points the configuration at a fresh archive in a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sleep.duckdb")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DUCKDB_PATH", path)
	t.Setenv("GARMIN_USERNAME", "me@example.com")
	t.Setenv("GARMIN_PASSWORD", "secret")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusEmptyArchive(t *testing.T) {
	path := setupEnv(t)

	out, err := execute(t, "status", "-o", "json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var res statusResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Path != path {
		t.Errorf("path = %q, want %q", res.Path, path)
	}
	if res.FirstDate != nil || res.LastDate != nil {
		t.Errorf("empty archive reported span %v..%v", res.FirstDate, res.LastDate)
	}
	for name, n := range res.Tables {
		if n != 0 {
			t.Errorf("table %s has %d rows, want 0", name, n)
		}
	}
}

func TestStatusText(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "nights  none") {
		t.Errorf("text output missing empty span line:\n%s", out)
	}
}

func TestTrimFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing cutoff", []string{"trim"}, "through"},
		{"bad cutoff", []string{"trim", "--through", "2024-13-01"}, "invalid --through"},
		{"bad output", []string{"trim", "--through", "2024-01-01", "-o", "yaml"}, "unknown output format"},
		{"missing backup", []string{"trim", "--through", "2024-01-01", "--from", "/nonexistent/backup.duckdb"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestTrimEmptyArchive(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "trim", "--through", "2024-03-31", "-o", "json")
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	var res struct {
		Cutoff  string           `json:"cutoff"`
		Removed map[string]int64 `json:"removed"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Cutoff != "2024-03-31" {
		t.Errorf("cutoff = %q, want 2024-03-31", res.Cutoff)
	}
	for name, n := range res.Removed {
		if n != 0 {
			t.Errorf("table %s: removed %d, want 0", name, n)
		}
	}
}

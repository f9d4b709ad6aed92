// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package legacy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Loader reads every configured year and returns the kept nights.
type Loader struct {
	dir    string
	years  []int
	mapper *Mapper
}

// NewLoader creates a loader for the exports in dir.
func NewLoader(dir string, years []int, loc *time.Location) *Loader {
	return &Loader{dir: dir, years: years, mapper: NewMapper(loc)}
}

// Load reads the exports in year order. Missing files are skipped with a
// warning; an unreadable file or an unparseable Date fails the load.
func (l *Loader) Load(ctx context.Context) (models.NightTable, *Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	out := models.NightTable{}
	if l.dir == "" || len(l.years) == 0 {
		stats.EndTime = time.Now()
		return out, stats, nil
	}

	reader, err := NewCSVReader()
	if err != nil {
		return nil, stats, err
	}
	defer reader.Close() //nolint:errcheck // in-memory instance

	for _, year := range l.years {
		path := filepath.Join(l.dir, FileName(year))
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				stats.MissingFiles++
				logging.Warn().Str("file", path).Msg("Legacy export not found, skipping")
				continue
			}
			return nil, stats, fmt.Errorf("stat %s: %w", path, err)
		}

		records, err := reader.ReadSleepRows(ctx, path, year)
		if err != nil {
			return nil, stats, err
		}
		stats.Files++
		stats.Rows += len(records)

		for i := range records {
			night, outcome, err := l.mapper.ToNight(&records[i])
			if err != nil {
				stats.Invalid++
				return nil, stats, err
			}
			switch outcome {
			case Nap:
				stats.Naps++
			case UnknownTotal:
				stats.UnknownTotal++
			default:
				stats.Kept++
				out = append(out, night)
			}
		}
	}

	stats.EndTime = time.Now()
	logging.Info().
		Int("files", stats.Files).
		Int("rows", stats.Rows).
		Int("kept", stats.Kept).
		Int("naps", stats.Naps).
		Int("unknown_total", stats.UnknownTotal).
		Dur("duration", stats.Duration()).
		Msg("Legacy exports loaded")
	return out, stats, nil
}

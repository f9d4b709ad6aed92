// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

// DefaultWindowDays is the widest range the sleep provider accepts.
const DefaultWindowDays = 31

// Chunk is one provider request range, inclusive.
type Chunk struct {
	Start models.Date
	End   models.Date
}

// ChunkDates partitions missing dates into request ranges. Each chunk starts
// at the earliest remaining date; it spans window days past that date when
// more than window-1 days remain, otherwise it ends at the last date. Chunks
// may cover dates that are not missing.
func ChunkDates(missing []models.Date, window int) []Chunk {
	if len(missing) == 0 {
		return nil
	}
	if window < 1 {
		window = DefaultWindowDays
	}
	remaining := append([]models.Date(nil), missing...)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].Before(remaining[j]) })
	last := remaining[len(remaining)-1]

	var chunks []Chunk
	for len(remaining) > 0 {
		ps := remaining[0]
		pe := last
		if ps.DaysUntil(last) > window-1 {
			pe = ps.AddDays(window)
		}
		chunks = append(chunks, Chunk{Start: ps, End: pe})

		i := 0
		for i < len(remaining) && !remaining[i].After(pe) {
			i++
		}
		remaining = remaining[i:]
	}
	return chunks
}

// FetchChunks requests every chunk in order and concatenates the results.
// Any failure discards what was already fetched.
func FetchChunks(ctx context.Context, provider intsync.SleepProvider, s *intsync.Session, chunks []Chunk) ([]intsync.RawNight, error) {
	var out []intsync.RawNight
	for i, c := range chunks {
		nights, err := provider.FetchRange(ctx, s, c.Start, c.End)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d [%s, %s]: %w", i+1, len(chunks), c.Start, c.End, err)
		}
		logging.Ctx(ctx).Debug().
			Int("chunk", i+1).
			Str("start", c.Start.String()).
			Str("end", c.End.String()).
			Int("nights", len(nights)).
			Msg("Chunk fetched")
		out = append(out, nights...)
	}
	return out, nil
}

// WriteRawDump writes the fetched entries, as received, to path as one JSON
// array.
func WriteRawDump(path string, raw []intsync.RawNight) error {
	entries := make([]json.RawMessage, 0, len(raw))
	for i := range raw {
		if len(raw[i].Raw) > 0 {
			entries = append(entries, raw[i].Raw)
			continue
		}
		b, err := json.Marshal(&raw[i])
		if err != nil {
			return fmt.Errorf("encode raw night: %w", err)
		}
		entries = append(entries, b)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode raw dump: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write raw dump: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace raw dump: %w", err)
	}
	return nil
}

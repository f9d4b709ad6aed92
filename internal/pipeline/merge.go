// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Merge appends the fresh records whose dates are not yet archived, sorts
// by date and drops the trailing run of records without a total duration.
// Those nights have likely not been synced by the device yet and are
// requested again next run. Within fresh, the first record for a date wins.
func Merge(archive, fresh models.NightTable) models.NightTable {
	seen := archive.DateSet()
	merged := make(models.NightTable, 0, len(archive)+len(fresh))
	merged = append(merged, archive...)
	for i := range fresh {
		if _, dup := seen[fresh[i].PrevDay]; dup {
			continue
		}
		seen[fresh[i].PrevDay] = struct{}{}
		merged = append(merged, fresh[i])
	}
	merged.Sort()
	return TrimTrailingUnknown(merged)
}

// TrimTrailingUnknown removes the most recent records while their total is
// unknown. t must be sorted.
func TrimTrailingUnknown(t models.NightTable) models.NightTable {
	end := len(t)
	for end > 0 && !t[end-1].HasTotal() {
		end--
	}
	return t[:end]
}

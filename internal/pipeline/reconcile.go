// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Reconcile unions the primary archive with the legacy nights. The sources
// cover disjoint periods; where they do not, one record per date survives so
// the derived tables stay keyed by date. A primary record with a known total
// wins; a primary placeholder yields to a legacy night. Among legacy records
// for one date the longest total wins.
func Reconcile(archive, legacyNights models.NightTable) models.NightTable {
	populated := make(map[models.Date]bool, len(archive))
	for i := range archive {
		if archive[i].HasTotal() {
			populated[archive[i].PrevDay] = true
		}
	}

	best := make(map[models.Date]int, len(legacyNights))
	var legacyKept models.NightTable
	dropped := 0
	for i := range legacyNights {
		n := legacyNights[i]
		if populated[n.PrevDay] {
			dropped++
			continue
		}
		if j, ok := best[n.PrevDay]; ok {
			dropped++
			if longer(&n, &legacyKept[j]) {
				legacyKept[j] = n
			}
			continue
		}
		best[n.PrevDay] = len(legacyKept)
		legacyKept = append(legacyKept, n)
	}

	out := make(models.NightTable, 0, len(archive)+len(legacyKept))
	replaced := 0
	for i := range archive {
		if _, ok := best[archive[i].PrevDay]; ok && !archive[i].HasTotal() {
			replaced++
			continue
		}
		out = append(out, archive[i])
	}
	if dropped > 0 || replaced > 0 {
		logging.Debug().
			Int("dropped", dropped).
			Int("placeholders_replaced", replaced).
			Msg("Overlapping legacy nights reconciled")
	}

	out = append(out, legacyKept...)
	out.Sort()
	return out
}

func longer(a, b *models.NightRecord) bool {
	switch {
	case a.Total == nil:
		return false
	case b.Total == nil:
		return true
	default:
		return *a.Total > *b.Total
	}
}

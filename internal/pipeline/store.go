// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"

	"github.com/buckeye17/sleepwithdash/internal/legacy"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// Store is the archive storage the pipeline reads and replaces. Every run
// re-reads it; *database.DB implements it.
type Store interface {
	LoadNights(ctx context.Context) (models.NightTable, error)
	ReplaceNights(ctx context.Context, table models.NightTable) error
	LoadDerivedDates(ctx context.Context) ([]models.Date, error)
	ReplaceDerived(ctx context.Context, descriptions models.DescriptionTable, events models.EventTable) error
	LoadSolar(ctx context.Context, from, to *models.Date) (models.SolarTable, error)
	ReplaceSolar(ctx context.Context, table models.SolarTable) error
	LoadSessionIDs(ctx context.Context) (map[models.Date]int64, error)
	ReplaceSessionIDs(ctx context.Context, ids map[models.Date]int64) error
}

// LegacySource supplies the nights of the retired device.
type LegacySource interface {
	Load(ctx context.Context) (models.NightTable, *legacy.Stats, error)
}

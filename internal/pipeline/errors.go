// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"errors"
	"fmt"
)

// ErrSyncInProgress is returned when a run is requested while another one
// is still in flight.
var ErrSyncInProgress = errors.New("sync already in progress")

// StageError records which step and stage of a run failed.
type StageError struct {
	Step  int
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

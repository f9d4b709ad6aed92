// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

/*
Package pipeline runs the incremental sleep sync.

A run walks five steps in order, threading one RunContext through them:

 0. detect_gaps: load the nights archive and list the missing dates
 1. login: acquire a provider session
 2. fetch: request the missing dates in chunks of at most 31 days
 3. transform: normalize, merge into the archive, union with the legacy
    export and derive the description, event and work calendar features
 4. almanac: download sunrise and sunset for every derived date

When no date is missing, steps 1 to 3 are skipped and step 4 runs over the
dates already derived. Every step persists its own output, so a failed run
leaves the tables of the completed steps in place and the next run resumes
from the gaps.

Runner serializes runs, publishes Progress events on TopicProgress and
keeps the last Status for the API. Stage failures are returned as
*StageError and forwarded to the optional FailureReporter.

The stage functions (DetectGaps, ChunkDates, Normalize, Merge, Reconcile,
Derive, SyncAlmanac) are pure apart from SyncAlmanac's provider calls and
can be tested without storage.
*/
package pipeline

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/metrics"
	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

const (
	msgLoggedIn     = "Logged in to %s"
	msgDownloaded   = "Data has been downloaded from Garmin"
	msgNightsAdded  = "%d night(s) were added to the sleep dataset"
	msgAlreadyAdded = "No nights were added to the sleep dataset"
)

// AcquirerFactory builds the session acquirer for a run whose first
// missing date is start.
type AcquirerFactory func(start models.Date) (intsync.SessionAcquirer, error)

// Deps are the collaborators of a Runner. Legacy, Publisher, Reporter and
// Now are optional.
type Deps struct {
	Store     Store
	Acquirer  AcquirerFactory
	Provider  intsync.SleepProvider
	Almanac   intsync.AlmanacProvider
	Legacy    LegacySource
	Publisher message.Publisher
	Reporter  FailureReporter
	Now       func() time.Time
}

// Status is the state of the current or last run.
type Status struct {
	Running      bool      `json:"running"`
	RunID        string    `json:"run_id,omitempty"`
	Progress     *Progress `json:"progress,omitempty"`
	LastResult   string    `json:"last_result,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	LastStarted  time.Time `json:"last_started"`
	LastFinished time.Time `json:"last_finished"`
	Messages     []string  `json:"messages,omitempty"`
}

// Runner executes sync runs one at a time.
type Runner struct {
	pipeline  config.PipelineConfig
	workdays  config.WorkdaysConfig
	window    int
	loginHost string
	loc       *time.Location
	deps      Deps

	mu      sync.Mutex
	status  Status
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner validates deps and resolves the configured timezone.
func NewRunner(cfg *config.Config, deps Deps) (*Runner, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("pipeline runner: store is required")
	case deps.Acquirer == nil:
		return nil, errors.New("pipeline runner: session acquirer is required")
	case deps.Provider == nil:
		return nil, errors.New("pipeline runner: sleep provider is required")
	case deps.Almanac == nil:
		return nil, errors.New("pipeline runner: almanac provider is required")
	}
	loc, err := cfg.Pipeline.Location()
	if err != nil {
		return nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	host := cfg.Provider.RefererBase
	if u, err := url.Parse(cfg.Provider.RefererBase); err == nil && u.Host != "" {
		host = u.Host
	}
	window := cfg.Provider.MaxWindowDays
	if window < 1 {
		window = DefaultWindowDays
	}
	return &Runner{
		pipeline:  cfg.Pipeline,
		workdays:  cfg.Workdays,
		window:    window,
		loginHost: host,
		loc:       loc,
		deps:      deps,
	}, nil
}

// Start makes ctx the parent of runs started by Trigger.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseCtx, r.cancel = context.WithCancel(ctx)
	logging.Info().Str("timezone", r.loc.String()).Msg("Sync runner started")
	return nil
}

// Stop cancels the parent context and waits for a triggered run to return.
func (r *Runner) Stop() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	logging.Info().Msg("Sync runner stopped")
	return nil
}

// Status returns a copy of the current status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.status
	if s.Progress != nil {
		p := *s.Progress
		s.Progress = &p
	}
	s.Messages = append([]string(nil), s.Messages...)
	return s
}

// Trigger starts a run in the background and returns its id.
func (r *Runner) Trigger() (string, error) {
	runID := logging.GenerateRunID()
	if !r.begin(runID) {
		return "", ErrSyncInProgress
	}

	r.mu.Lock()
	ctx := r.baseCtx
	r.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, _ = r.run(ctx, runID)
	}()
	return runID, nil
}

// Run executes one run synchronously.
func (r *Runner) Run(ctx context.Context) (*RunContext, error) {
	runID := logging.GenerateRunID()
	if !r.begin(runID) {
		return nil, ErrSyncInProgress
	}
	return r.run(ctx, runID)
}

func (r *Runner) begin(runID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Running {
		return false
	}
	r.status.Running = true
	r.status.RunID = runID
	r.status.LastStarted = r.deps.Now()
	r.status.Progress = nil
	r.status.Messages = nil
	return true
}

func (r *Runner) run(ctx context.Context, runID string) (*RunContext, error) {
	ctx = logging.ContextWithRunID(ctx, runID)
	rc := NewRunContext(runID, Range{}, r.loc)
	logging.Ctx(ctx).Info().Msg("Sync run started")

	err := r.execute(ctx, rc)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultFailure
	case rc.UpToDate() && rc.SolarAdded == 0:
		result = metrics.ResultNoop
	}
	metrics.RecordSyncRun(result)

	final := Progress{
		RunID:     runID,
		Step:      stepCount - 1,
		Stage:     StageAlmanac,
		Status:    StatusCompleted,
		Percent:   100,
		Done:      true,
		Timestamp: r.deps.Now(),
	}
	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			final.Step, final.Stage = se.Step, se.Stage
			final.Percent = se.Step * 100 / stepCount
		}
		final.Status = StatusFailed
		final.Error = err.Error()
		logging.Ctx(ctx).Error().Err(err).Dur("elapsed", time.Since(rc.StartedAt)).Msg("Sync run failed")
		if r.deps.Reporter != nil {
			r.deps.Reporter.ReportFailure(ctx, runID, err)
		}
	} else {
		logging.Ctx(ctx).Info().
			Str("result", result).
			Int("nights_added", rc.NightsAdded).
			Int("solar_added", rc.SolarAdded).
			Dur("elapsed", time.Since(rc.StartedAt)).
			Msg("Sync run finished")
	}
	r.publish(ctx, &final)

	r.mu.Lock()
	r.status.Running = false
	r.status.LastResult = result
	r.status.LastError = ""
	if err != nil {
		r.status.LastError = err.Error()
	}
	r.status.LastFinished = r.deps.Now()
	r.status.Messages = append([]string(nil), rc.Messages...)
	r.mu.Unlock()

	return rc, err
}

func (r *Runner) execute(ctx context.Context, rc *RunContext) error {
	if err := r.stage(ctx, rc, StepDetect, r.detect); err != nil {
		return err
	}
	if rc.UpToDate() {
		for _, step := range []int{StepLogin, StepFetch, StepTransform} {
			r.skip(ctx, rc, step)
		}
		return r.stage(ctx, rc, StepAlmanac, func(ctx context.Context, rc *RunContext) error {
			dates, err := r.deps.Store.LoadDerivedDates(ctx)
			if err != nil {
				return err
			}
			rc.DerivedDates = dates
			return r.almanac(ctx, rc)
		})
	}
	for _, s := range []struct {
		step int
		fn   func(context.Context, *RunContext) error
	}{
		{StepLogin, r.login},
		{StepFetch, r.fetch},
		{StepTransform, r.transform},
		{StepAlmanac, r.almanac},
	} {
		if err := r.stage(ctx, rc, s.step, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) stage(ctx context.Context, rc *RunContext, step int, fn func(context.Context, *RunContext) error) error {
	name := stageNames[step]
	r.publish(ctx, &Progress{
		RunID:     rc.RunID,
		Step:      step,
		Stage:     name,
		Status:    StatusRunning,
		Percent:   step * 100 / stepCount,
		Timestamp: r.deps.Now(),
	})

	start := time.Now()
	before := len(rc.Messages)
	err := fn(ctx, rc)
	metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		return &StageError{Step: step, Stage: name, Err: err}
	}

	p := &Progress{
		RunID:     rc.RunID,
		Step:      step,
		Stage:     name,
		Status:    StatusCompleted,
		Percent:   percentAfter(step),
		Timestamp: r.deps.Now(),
	}
	if len(rc.Messages) > before {
		p.Message = rc.Messages[len(rc.Messages)-1]
	}
	logging.Ctx(ctx).Info().Str("stage", name).Dur("duration", time.Since(start)).Msg(p.Message)
	r.publish(ctx, p)
	return nil
}

func (r *Runner) skip(ctx context.Context, rc *RunContext, step int) {
	r.publish(ctx, &Progress{
		RunID:     rc.RunID,
		Step:      step,
		Stage:     stageNames[step],
		Status:    StatusSkipped,
		Percent:   percentAfter(step),
		Timestamp: r.deps.Now(),
	})
}

func (r *Runner) publish(ctx context.Context, p *Progress) {
	r.mu.Lock()
	cp := *p
	r.status.Progress = &cp
	r.mu.Unlock()

	if r.deps.Publisher == nil {
		return
	}
	msg, err := EncodeProgress(p)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Dropping progress event")
		return
	}
	if err := r.deps.Publisher.Publish(TopicProgress, msg); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("stage", p.Stage).Msg("Failed to publish progress event")
	}
}

// Step 0.
func (r *Runner) detect(ctx context.Context, rc *RunContext) error {
	rng, err := ResolveRange(r.pipeline.StartDate, r.pipeline.EndDate, r.deps.Now(), r.loc)
	if err != nil {
		return err
	}
	rc.Range = rng

	archive, err := r.deps.Store.LoadNights(ctx)
	if err != nil {
		return fmt.Errorf("load nights: %w", err)
	}
	rc.Archive = archive

	msg, missing := DetectGaps(rng, archive)
	rc.Missing = missing
	metrics.SyncMissingDates.Set(float64(len(missing)))
	rc.addMessage(msg)
	return nil
}

// Step 1.
func (r *Runner) login(ctx context.Context, rc *RunContext) error {
	acq, err := r.deps.Acquirer(rc.Missing[0])
	if err != nil {
		return err
	}
	s, err := acq.Acquire(ctx)
	if err != nil {
		return err
	}
	rc.Session = s
	rc.addMessage(fmt.Sprintf(msgLoggedIn, r.loginHost))
	return nil
}

// Step 2.
func (r *Runner) fetch(ctx context.Context, rc *RunContext) error {
	chunks := ChunkDates(rc.Missing, r.window)
	raw, err := FetchChunks(ctx, r.deps.Provider, rc.Session, chunks)
	if err != nil {
		return err
	}
	rc.Raw = raw
	metrics.SyncNightsFetched.Add(float64(len(raw)))

	if r.pipeline.RawDumpPath != "" {
		if err := WriteRawDump(r.pipeline.RawDumpPath, raw); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("path", r.pipeline.RawDumpPath).Msg("Raw dump not written")
		}
	}
	rc.addMessage(msgDownloaded)
	return nil
}

// Step 3.
func (r *Runner) transform(ctx context.Context, rc *RunContext) error {
	normalized, err := Normalize(rc.Raw, rc.Missing, r.loc)
	if err != nil {
		return err
	}
	rc.Normalized = normalized
	rc.Merged = Merge(rc.Archive, normalized)
	if err := r.deps.Store.ReplaceNights(ctx, rc.Merged); err != nil {
		return fmt.Errorf("store nights: %w", err)
	}

	var legacyNights models.NightTable
	if r.deps.Legacy != nil {
		nights, stats, err := r.deps.Legacy.Load(ctx)
		if err != nil {
			return fmt.Errorf("load legacy nights: %w", err)
		}
		legacyNights = nights
		if stats != nil {
			logging.Ctx(ctx).Debug().
				Int("files", stats.Files).
				Int("kept", stats.Kept).
				Msg("Legacy export loaded")
		}
	}
	rc.Unioned = Reconcile(rc.Merged, legacyNights)

	calOpts, err := CalendarOptions(&r.workdays, rc.Range.End)
	if err != nil {
		return err
	}
	opts := DeriveOptions{Calendar: calOpts, Location: r.loc}
	if r.pipeline.StableSessionIDs {
		prior, err := r.deps.Store.LoadSessionIDs(ctx)
		if err != nil {
			return fmt.Errorf("load session ids: %w", err)
		}
		if prior == nil {
			prior = map[models.Date]int64{}
		}
		opts.PriorIDs = prior
	}

	priorDates, err := r.deps.Store.LoadDerivedDates(ctx)
	if err != nil {
		return fmt.Errorf("load derived dates: %w", err)
	}

	derived, err := Derive(rc.Unioned, opts)
	if err != nil {
		return err
	}
	if err := r.deps.Store.ReplaceDerived(ctx, derived.Descriptions, derived.Events); err != nil {
		return fmt.Errorf("store derived tables: %w", err)
	}
	if r.pipeline.StableSessionIDs {
		if err := r.deps.Store.ReplaceSessionIDs(ctx, derived.SessionIDs); err != nil {
			return fmt.Errorf("store session ids: %w", err)
		}
	}
	rc.Descriptions = derived.Descriptions
	rc.Events = derived.Events
	rc.DerivedDates = derived.Dates
	rc.NightsAdded = len(derived.Descriptions) - len(priorDates)

	if rc.NightsAdded > 0 {
		rc.addMessage(fmt.Sprintf(msgNightsAdded, rc.NightsAdded))
	} else {
		rc.addMessage(msgAlreadyAdded)
	}
	return nil
}

// Step 4.
func (r *Runner) almanac(ctx context.Context, rc *RunContext) error {
	solar, err := r.deps.Store.LoadSolar(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("load solar: %w", err)
	}
	table, added, err := SyncAlmanac(ctx, r.deps.Almanac, rc.DerivedDates, solar, r.loc)
	if err != nil {
		return err
	}
	rc.Solar = table
	rc.SolarAdded = added
	if added == 0 {
		rc.addMessage(msgSolarUpToDate)
		return nil
	}
	if err := r.deps.Store.ReplaceSolar(ctx, table); err != nil {
		return fmt.Errorf("store solar: %w", err)
	}
	rc.addMessage(msgSolarDownloaded)
	return nil
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/legacy"
	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

type memStore struct {
	mu           sync.Mutex
	nights       models.NightTable
	descriptions models.DescriptionTable
	events       models.EventTable
	solar        models.SolarTable
	ids          map[models.Date]int64
	nightWrites  int
	solarWrites  int
}

func (s *memStore) LoadNights(context.Context) (models.NightTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.NightTable(nil), s.nights...), nil
}

func (s *memStore) ReplaceNights(_ context.Context, t models.NightTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nights = append(models.NightTable(nil), t...)
	s.nightWrites++
	return nil
}

func (s *memStore) LoadDerivedDates(context.Context) ([]models.Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Date
	for _, d := range s.descriptions {
		out = append(out, d.PrevDay)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (s *memStore) ReplaceDerived(_ context.Context, d models.DescriptionTable, e models.EventTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptions = append(models.DescriptionTable(nil), d...)
	s.events = append(models.EventTable(nil), e...)
	return nil
}

func (s *memStore) LoadSolar(context.Context, *models.Date, *models.Date) (models.SolarTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.SolarTable(nil), s.solar...), nil
}

func (s *memStore) ReplaceSolar(_ context.Context, t models.SolarTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solar = append(models.SolarTable(nil), t...)
	s.solarWrites++
	return nil
}

func (s *memStore) LoadSessionIDs(context.Context) (map[models.Date]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		return nil, nil
	}
	out := make(map[models.Date]int64, len(s.ids))
	for d, id := range s.ids {
		out[d] = id
	}
	return out, nil
}

func (s *memStore) ReplaceSessionIDs(_ context.Context, ids map[models.Date]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = ids
	return nil
}

// fakeProvider answers every requested date with a full night.
type fakeProvider struct {
	mu      sync.Mutex
	calls   []Chunk
	err     error
	started chan struct{}
	release chan struct{}
}

func (p *fakeProvider) FetchRange(_ context.Context, _ *intsync.Session, start, end models.Date) ([]intsync.RawNight, error) {
	p.mu.Lock()
	p.calls = append(p.calls, Chunk{Start: start, End: end})
	p.mu.Unlock()

	if p.started != nil {
		p.started <- struct{}{}
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	var out []intsync.RawNight
	for _, d := range models.DateRange(start, end) {
		out = append(out, rawFor(d, i64(27000)))
	}
	return out, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type staticAcquirer struct{}

func (staticAcquirer) Acquire(context.Context) (*intsync.Session, error) {
	return &intsync.Session{Headers: http.Header{}, Token: "42", AcquiredAt: time.Now()}, nil
}

type fakeLegacy struct {
	nights models.NightTable
}

func (f fakeLegacy) Load(context.Context) (models.NightTable, *legacy.Stats, error) {
	return f.nights, &legacy.Stats{Files: 1, Kept: len(f.nights)}, nil
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) ReportFailure(_ context.Context, _ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func testConfig() *config.Config {
	return &config.Config{
		Provider: config.ProviderConfig{
			RefererBase:   "https://connect.example.com/modern/sleep",
			MaxWindowDays: 31,
		},
		Pipeline: config.PipelineConfig{
			StartDate: "2020-01-01",
			EndDate:   "2020-01-05",
			Timezone:  "UTC",
		},
		Workdays: config.WorkdaysConfig{
			WeekendDays: []string{"Friday", "Saturday"},
		},
	}
}

type fixture struct {
	store    *memStore
	provider *fakeProvider
	almanac  *fakeAlmanac
	reporter *recordingReporter
	runner   *Runner
}

func newFixture(t *testing.T, cfg *config.Config, mutate func(*Deps)) *fixture {
	t.Helper()
	f := &fixture{
		store:    &memStore{},
		provider: &fakeProvider{},
		almanac:  &fakeAlmanac{},
		reporter: &recordingReporter{},
	}
	deps := Deps{
		Store: f.store,
		Acquirer: func(models.Date) (intsync.SessionAcquirer, error) {
			return staticAcquirer{}, nil
		},
		Provider: f.provider,
		Almanac:  f.almanac,
		Reporter: f.reporter,
	}
	if mutate != nil {
		mutate(&deps)
	}
	r, err := NewRunner(cfg, deps)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	f.runner = r
	return f
}

func TestRunnerFirstRunAndIdempotence(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig(), nil)
	ctx := context.Background()

	rc, err := f.runner.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	wantMessages := []string{
		"Current data was checked and 5 night(s) are needed",
		"Logged in to connect.example.com",
		"Data has been downloaded from Garmin",
		"5 night(s) were added to the sleep dataset",
		"New sunrise and sunset data has been downloaded",
	}
	if len(rc.Messages) != len(wantMessages) {
		t.Fatalf("messages = %q", rc.Messages)
	}
	for i, want := range wantMessages {
		if rc.Messages[i] != want {
			t.Errorf("message %d = %q, want %q", i, rc.Messages[i], want)
		}
	}
	if f.provider.callCount() != 1 {
		t.Errorf("provider calls = %d, want 1", f.provider.callCount())
	}
	if len(f.store.nights) != 5 || len(f.store.descriptions) != 5 || len(f.store.events) != 10 || len(f.store.solar) != 5 {
		t.Errorf("tables = %d nights, %d descriptions, %d events, %d solar",
			len(f.store.nights), len(f.store.descriptions), len(f.store.events), len(f.store.solar))
	}

	nights := f.store.nights
	descriptions := f.store.descriptions

	rc, err = f.runner.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !rc.UpToDate() {
		t.Errorf("second run found %d missing dates", len(rc.Missing))
	}
	if rc.Messages[0] != msgUpToDate || rc.Messages[len(rc.Messages)-1] != msgSolarUpToDate {
		t.Errorf("second run messages = %q", rc.Messages)
	}
	if f.provider.callCount() != 1 || len(f.almanac.calls) != 5 {
		t.Errorf("second run hit providers: %d sleep, %d almanac calls", f.provider.callCount(), len(f.almanac.calls))
	}
	if f.store.nightWrites != 1 || f.store.solarWrites != 1 {
		t.Errorf("second run wrote tables: %d night, %d solar writes", f.store.nightWrites, f.store.solarWrites)
	}
	if len(f.store.nights) != len(nights) || len(f.store.descriptions) != len(descriptions) {
		t.Errorf("tables changed on an up-to-date run")
	}

	st := f.runner.Status()
	if st.Running || st.LastResult != "noop" || st.LastError != "" {
		t.Errorf("status = %+v", st)
	}
	if st.Progress == nil || !st.Progress.Done || st.Progress.Percent != 100 {
		t.Errorf("final progress = %+v", st.Progress)
	}
}

func TestRunnerClosesNewGaps(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	f := newFixture(t, cfg, nil)
	f.store.nights = nightsBetween("2020-01-01", "2020-01-03")

	rc, err := f.runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rc.Missing) != 2 || rc.Missing[0] != day("2020-01-04") {
		t.Errorf("missing = %v", rc.Missing)
	}
	if got := f.provider.calls[0]; got.Start != day("2020-01-04") || got.End != day("2020-01-05") {
		t.Errorf("requested %v", got)
	}
	if rc.NightsAdded != 5 {
		t.Errorf("NightsAdded = %d, want 5 (no prior derivation)", rc.NightsAdded)
	}
	if _, missing := DetectGaps(rc.Range, f.store.nights); len(missing) != 0 {
		t.Errorf("gaps remain after run: %v", missing)
	}
}

func TestRunnerUnionsLegacyNights(t *testing.T) {
	t.Parallel()

	legacyNights := models.NightTable{
		night("2019-12-30", hours(7), models.SourceLegacy),
		night("2019-12-31", hours(7), models.SourceLegacy),
	}
	f := newFixture(t, testConfig(), func(d *Deps) { d.Legacy = fakeLegacy{nights: legacyNights} })

	rc, err := f.runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rc.Descriptions) != 7 || rc.Descriptions[0].PrevDay != day("2019-12-30") {
		t.Errorf("descriptions = %d starting %v", len(rc.Descriptions), rc.Descriptions[0].PrevDay)
	}
	if len(f.store.nights) != 5 {
		t.Errorf("legacy nights leaked into the nights archive: %d rows", len(f.store.nights))
	}
	if len(f.almanac.calls) != 7 {
		t.Errorf("almanac calls = %d, want 7", len(f.almanac.calls))
	}
}

func TestRunnerStableSessionIDs(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pipeline.StableSessionIDs = true
	cfg.Pipeline.EndDate = "2020-01-03"
	f := newFixture(t, cfg, nil)

	if _, err := f.runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := f.store.ids

	f.runner.pipeline.EndDate = "2020-01-05"
	if _, err := f.runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for d, id := range first {
		if f.store.ids[d] != id {
			t.Errorf("session id of %s moved from %d to %d", d, id, f.store.ids[d])
		}
	}
	if len(f.store.ids) != 5 {
		t.Errorf("ids = %d, want 5", len(f.store.ids))
	}
}

func TestRunnerStageFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig(), nil)
	f.provider.err = &intsync.ProviderError{Provider: intsync.ProviderGarmin, StatusCode: 403, Message: "forbidden"}

	_, err := f.runner.Run(context.Background())
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StageError", err)
	}
	if se.Step != StepFetch || se.Stage != StageFetch {
		t.Errorf("failed at step %d (%s), want fetch", se.Step, se.Stage)
	}
	var pe *intsync.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 403 {
		t.Errorf("provider error not preserved: %v", err)
	}
	if f.store.nightWrites != 0 {
		t.Errorf("failed fetch wrote the nights table")
	}
	if len(f.reporter.errs) != 1 {
		t.Errorf("reported %d failures, want 1", len(f.reporter.errs))
	}
	st := f.runner.Status()
	if st.Running || st.LastResult != "failure" || st.LastError == "" {
		t.Errorf("status = %+v", st)
	}
	if st.Progress == nil || st.Progress.Status != StatusFailed || st.Progress.Stage != StageFetch {
		t.Errorf("progress = %+v", st.Progress)
	}
}

func TestRunnerLoginFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig(), func(d *Deps) {
		d.Acquirer = func(models.Date) (intsync.SessionAcquirer, error) {
			return nil, intsync.ErrAuthFailed
		}
	})
	_, err := f.runner.Run(context.Background())
	var se *StageError
	if !errors.As(err, &se) || se.Step != StepLogin || !errors.Is(err, intsync.ErrAuthFailed) {
		t.Errorf("error = %v, want login StageError wrapping ErrAuthFailed", err)
	}
	if f.provider.callCount() != 0 {
		t.Errorf("provider called after failed login")
	}
}

func TestRunnerInFlightGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig(), nil)
	f.provider.started = make(chan struct{})
	f.provider.release = make(chan struct{})

	if err := f.runner.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	runID, err := f.runner.Trigger()
	if err != nil || runID == "" {
		t.Fatalf("Trigger() = %q, %v", runID, err)
	}

	select {
	case <-f.provider.started:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not reach the provider")
	}

	if _, err := f.runner.Trigger(); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("second Trigger() error = %v, want ErrSyncInProgress", err)
	}
	if _, err := f.runner.Run(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("Run() during a run error = %v, want ErrSyncInProgress", err)
	}
	if st := f.runner.Status(); !st.Running || st.RunID != runID {
		t.Errorf("status during run = %+v", st)
	}

	close(f.provider.release)
	if err := f.runner.Stop(); err != nil {
		t.Fatal(err)
	}
	if st := f.runner.Status(); st.Running || st.LastResult != "success" {
		t.Errorf("status after run = %+v", st)
	}
}

func TestRunnerPublishesProgress(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := bus.Subscribe(ctx, TopicProgress)
	if err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, testConfig(), func(d *Deps) { d.Publisher = bus })

	events := make(chan []Progress, 1)
	go func() {
		var got []Progress
		for msg := range sub {
			p, err := DecodeProgress(msg)
			msg.Ack()
			if err != nil {
				continue
			}
			got = append(got, *p)
			if p.Done {
				break
			}
		}
		events <- got
	}()

	if _, err := f.runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []Progress
	select {
	case got = <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("no final progress event")
	}

	// running + completed per step, then the final event.
	if len(got) != 2*stepCount+1 {
		t.Fatalf("events = %d, want %d", len(got), 2*stepCount+1)
	}
	for step := 0; step < stepCount; step++ {
		running, completed := got[2*step], got[2*step+1]
		if running.Status != StatusRunning || running.Step != step {
			t.Errorf("event %d = %+v", 2*step, running)
		}
		if completed.Status != StatusCompleted || completed.Percent != (step+1)*100/stepCount || completed.Message == "" {
			t.Errorf("event %d = %+v", 2*step+1, completed)
		}
	}
	last := got[len(got)-1]
	if !last.Done || last.Percent != 100 || last.RunID == "" {
		t.Errorf("final event = %+v", last)
	}
}

func TestNewRunnerRequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewRunner(testConfig(), Deps{}); err == nil {
		t.Error("NewRunner without deps succeeded")
	}
	cfg := testConfig()
	cfg.Pipeline.Timezone = "Mars/Olympus_Mons"
	if _, err := NewRunner(cfg, Deps{
		Store:    &memStore{},
		Acquirer: func(models.Date) (intsync.SessionAcquirer, error) { return staticAcquirer{}, nil },
		Provider: &fakeProvider{},
		Almanac:  &fakeAlmanac{},
	}); err == nil {
		t.Error("NewRunner with unknown timezone succeeded")
	}
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/buckeye17/sleepwithdash/internal/calendar"
	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/models"
	intsync "github.com/buckeye17/sleepwithdash/internal/sync"
)

var est = time.FixedZone("EST", -5*3600)

func day(s string) models.Date { return models.MustParseDate(s) }

func i64(v int64) *int64 { return &v }

func hours(h float64) *time.Duration {
	d := time.Duration(h * float64(time.Hour))
	return &d
}

// rawFor builds a provider entry for the night of prev: in bed at 23:00 EST,
// up eight hours later.
func rawFor(prev models.Date, total *int64) intsync.RawNight {
	bed := prev.In(est).Add(23 * time.Hour).UnixMilli()
	wake := bed + (8 * time.Hour).Milliseconds()
	return intsync.RawNight{
		SleepStartTimestampGMT: &bed,
		SleepEndTimestampGMT:   &wake,
		CalendarDate:           prev.AddDays(1).String(),
		DeepSleepSeconds:       i64(7200),
		LightSleepSeconds:      i64(18000),
		AwakeSleepSeconds:      i64(600),
		SleepTimeSeconds:       total,
	}
}

func night(prev string, total *time.Duration, src models.Source) models.NightRecord {
	d := day(prev)
	bed := d.In(est).Add(23 * time.Hour)
	wake := bed.Add(8 * time.Hour)
	return models.NightRecord{PrevDay: d, BedTime: &bed, WakeTime: &wake, Total: total, Source: src}
}

func nightsBetween(start, end string) models.NightTable {
	var t models.NightTable
	for _, d := range models.DateRange(day(start), day(end)) {
		t = append(t, night(d.String(), hours(7), models.SourceGarmin))
	}
	return t
}

func TestChunkDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		missing []models.Date
		window  int
		want    []Chunk
	}{
		{
			name:    "empty",
			missing: nil,
			window:  31,
			want:    nil,
		},
		{
			name:    "exactly one window",
			missing: models.DateRange(day("2020-01-01"), day("2020-01-31")),
			window:  31,
			want:    []Chunk{{day("2020-01-01"), day("2020-01-31")}},
		},
		{
			name:    "one past the window extends the chunk",
			missing: models.DateRange(day("2020-01-01"), day("2020-02-01")),
			window:  31,
			want:    []Chunk{{day("2020-01-01"), day("2020-02-01")}},
		},
		{
			name:    "long range",
			missing: models.DateRange(day("2020-01-01"), day("2020-03-15")),
			window:  31,
			want: []Chunk{
				{day("2020-01-01"), day("2020-02-01")},
				{day("2020-02-02"), day("2020-03-04")},
				{day("2020-03-05"), day("2020-03-15")},
			},
		},
		{
			name:    "sparse dates skip covered gaps",
			missing: []models.Date{day("2020-03-01"), day("2020-01-05"), day("2020-01-01")},
			window:  31,
			want: []Chunk{
				{day("2020-01-01"), day("2020-02-01")},
				{day("2020-03-01"), day("2020-03-01")},
			},
		},
		{
			name:    "invalid window falls back to default",
			missing: []models.Date{day("2020-01-01"), day("2020-01-20")},
			window:  0,
			want:    []Chunk{{day("2020-01-01"), day("2020-01-20")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ChunkDates(tt.missing, tt.window)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkDates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDetectGaps(t *testing.T) {
	t.Parallel()

	r := Range{Start: day("2020-01-01"), End: day("2020-01-05")}

	archive := models.NightTable{
		night("2020-01-02", hours(7), models.SourceGarmin),
		night("2020-01-04", hours(7), models.SourceGarmin),
	}
	msg, missing := DetectGaps(r, archive)
	if msg != "Current data was checked and 3 night(s) are needed" {
		t.Errorf("message = %q", msg)
	}
	want := []models.Date{day("2020-01-01"), day("2020-01-03"), day("2020-01-05")}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %s, want %s", i, missing[i], want[i])
		}
	}

	msg, missing = DetectGaps(r, nightsBetween("2019-12-30", "2020-01-06"))
	if msg != msgUpToDate || missing != nil {
		t.Errorf("DetectGaps(full) = %q, %v", msg, missing)
	}

	_, missing = DetectGaps(r, nil)
	if len(missing) != 5 {
		t.Errorf("empty archive missing = %d dates, want 5", len(missing))
	}
}

func TestResolveRange(t *testing.T) {
	t.Parallel()

	// 03:00 UTC on the 16th is still the 15th in EST, so yesterday is the 14th.
	now := time.Date(2020, 1, 16, 3, 0, 0, 0, time.UTC)

	r, err := ResolveRange("2020-01-01", "", now, est)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != day("2020-01-01") || r.End != day("2020-01-14") {
		t.Errorf("ResolveRange = %v..%v", r.Start, r.End)
	}

	r, err = ResolveRange("2020-01-01", "2020-01-10", now, est)
	if err != nil || r.End != day("2020-01-10") {
		t.Errorf("explicit end = %v, %v", r.End, err)
	}

	for _, tc := range []struct{ start, end string }{
		{"2020-01-10", "2020-01-01"},
		{"01/01/2020", ""},
		{"2020-01-01", "tomorrow"},
	} {
		if _, err := ResolveRange(tc.start, tc.end, now, est); err == nil {
			t.Errorf("ResolveRange(%q, %q) succeeded", tc.start, tc.end)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	raw := []intsync.RawNight{
		rawFor(day("2020-01-01"), i64(28800)),
		rawFor(day("2020-01-03"), nil),
	}
	requested := models.DateRange(day("2020-01-01"), day("2020-01-03"))

	got, err := Normalize(raw, requested, est)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	got.Sort()

	first := got[0]
	if first.PrevDay != day("2020-01-01") {
		t.Errorf("PrevDay = %s, want 2020-01-01", first.PrevDay)
	}
	if first.BedTime == nil || first.BedTime.Hour() != 23 || first.BedTime.Location() != est {
		t.Errorf("BedTime = %v, want 23:00 EST", first.BedTime)
	}
	if first.Total == nil || *first.Total != 8*time.Hour {
		t.Errorf("Total = %v, want 8h", first.Total)
	}
	if first.Light == nil || *first.Light != 5*time.Hour {
		t.Errorf("Light = %v, want 5h", first.Light)
	}
	if first.Source != models.SourceGarmin {
		t.Errorf("Source = %q", first.Source)
	}

	// The provider had no entry for the 2nd.
	if got[1].PrevDay != day("2020-01-02") || got[1].BedTime != nil || got[1].HasTotal() {
		t.Errorf("placeholder = %+v", got[1])
	}

	// Null sleepTimeSeconds stays unknown but keeps its clock times.
	if got[2].HasTotal() || got[2].BedTime == nil {
		t.Errorf("null total record = %+v", got[2])
	}
}

func TestNormalizeRejectsBadCalendarDate(t *testing.T) {
	t.Parallel()

	raw := []intsync.RawNight{{CalendarDate: "01/02/2020"}}
	if _, err := Normalize(raw, nil, est); !errors.Is(err, models.ErrSchema) {
		t.Errorf("Normalize() error = %v, want ErrSchema", err)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	archive := nightsBetween("2020-01-01", "2020-01-10")

	fresh := models.NightTable{
		night("2020-01-05", hours(3), models.SourceGarmin),
		night("2020-01-11", hours(6), models.SourceGarmin),
		night("2020-01-12", hours(6), models.SourceGarmin),
		night("2020-01-12", hours(1), models.SourceGarmin),
		night("2020-01-13", nil, models.SourceGarmin),
		night("2020-01-14", hours(6), models.SourceGarmin),
		night("2020-01-15", hours(6), models.SourceGarmin),
		night("2020-01-17", nil, models.SourceGarmin),
		night("2020-01-16", nil, models.SourceGarmin),
	}

	got := Merge(archive, fresh)
	if len(got) != 15 {
		t.Fatalf("len = %d, want 15", len(got))
	}
	if err := got.Validate(true); err != nil {
		t.Errorf("merged table invalid: %v", err)
	}
	if got[0].PrevDay != day("2020-01-01") || got[14].PrevDay != day("2020-01-15") {
		t.Errorf("span = %s..%s", got[0].PrevDay, got[14].PrevDay)
	}
	if *got[4].Total != 7*time.Hour {
		t.Errorf("archived 2020-01-05 replaced: total %v", *got[4].Total)
	}
	if *got[11].Total != 6*time.Hour {
		t.Errorf("first fresh 2020-01-12 should win, got total %v", *got[11].Total)
	}
	if got[12].HasTotal() {
		t.Errorf("mid-range unknown night 2020-01-13 should be kept as unknown")
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	archive := nightsBetween("2020-01-01", "2020-01-10")
	once := Merge(archive, nightsBetween("2020-01-11", "2020-01-15"))
	twice := Merge(once, nightsBetween("2020-01-11", "2020-01-15"))
	if len(once) != len(twice) {
		t.Errorf("re-merge changed length %d -> %d", len(once), len(twice))
	}
}

func TestTrimTrailingUnknown(t *testing.T) {
	t.Parallel()

	all := models.NightTable{
		night("2020-01-01", nil, models.SourceGarmin),
		night("2020-01-02", nil, models.SourceGarmin),
	}
	if got := TrimTrailingUnknown(all); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if got := TrimTrailingUnknown(nil); len(got) != 0 {
		t.Errorf("nil table trimmed to %d rows", len(got))
	}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	archive := models.NightTable{night("2020-01-10", hours(7), models.SourceGarmin)}
	legacyNights := models.NightTable{
		night("2020-01-09", hours(6), models.SourceLegacy),
		night("2020-01-10", hours(5), models.SourceLegacy),
		night("2020-01-09", hours(7.5), models.SourceLegacy),
		night("2019-12-31", hours(8), models.SourceLegacy),
	}

	got := Reconcile(archive, legacyNights)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if err := got.Validate(true); err != nil {
		t.Errorf("unioned table invalid: %v", err)
	}
	if got[1].PrevDay != day("2020-01-09") || *got[1].Total != 7*time.Hour+30*time.Minute {
		t.Errorf("legacy duplicate kept %+v, want the longest", got[1])
	}
	if got[2].Source != models.SourceGarmin {
		t.Errorf("overlapping date kept source %q, want garmin", got[2].Source)
	}

	if got := Reconcile(archive, nil); len(got) != 1 {
		t.Errorf("no legacy data: len = %d, want 1", len(got))
	}
}

func TestReconcileFillsPrimaryPlaceholders(t *testing.T) {
	t.Parallel()

	archive := models.NightTable{
		models.Placeholder(day("2017-03-05"), models.SourceGarmin),
		night("2017-03-06", hours(6), models.SourceGarmin),
	}
	legacyNights := models.NightTable{
		night("2017-03-05", hours(7), models.SourceLegacy),
	}

	got := Reconcile(archive, legacyNights)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if err := got.Validate(true); err != nil {
		t.Errorf("unioned table invalid: %v", err)
	}
	if got[0].Source != models.SourceLegacy || !got[0].HasTotal() || *got[0].Total != 7*time.Hour {
		t.Errorf("2017-03-05 = %+v, want the populated legacy night", got[0])
	}
	if got[1].Source != models.SourceGarmin {
		t.Errorf("2017-03-06 source = %q, want garmin", got[1].Source)
	}

	// A placeholder with no legacy counterpart stays.
	if got := Reconcile(archive, nil); len(got) != 2 || got[0].HasTotal() {
		t.Errorf("placeholder without legacy night: %+v", got)
	}
}

func TestDerive(t *testing.T) {
	t.Parallel()

	// 2020-01-01 is a Wednesday and New Year's Day.
	unioned := models.NightTable{
		night("2020-01-01", hours(7), models.SourceGarmin),
		night("2020-01-03", hours(8), models.SourceGarmin),
		night("2020-01-06", hours(6), models.SourceLegacy),
	}
	opts := DeriveOptions{
		Calendar: calendar.Options{WeekendDays: []time.Weekday{time.Friday, time.Saturday}},
		Location: est,
	}

	got, err := Derive(unioned, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Descriptions) != 6 || len(got.Events) != 12 {
		t.Fatalf("descriptions = %d, events = %d, want 6 and 12", len(got.Descriptions), len(got.Events))
	}

	tests := []struct {
		date    string
		id      int64
		dayName string
		holiday bool
		workday bool
	}{
		{"2020-01-01", 0, "Wednesday", true, false},
		{"2020-01-02", 1, "Thursday", false, true},
		{"2020-01-03", 2, "Friday", false, false},
		{"2020-01-04", 3, "Saturday", false, false},
		{"2020-01-05", 4, "Sunday", false, true},
		{"2020-01-06", 5, "Monday", false, true},
	}
	for i, tt := range tests {
		d := got.Descriptions[i]
		if d.PrevDay != day(tt.date) || d.SessionID != tt.id {
			t.Errorf("row %d = %s/%d, want %s/%d", i, d.PrevDay, d.SessionID, tt.date, tt.id)
		}
		if d.Day != tt.dayName || d.Year != 2020 {
			t.Errorf("%s: Day = %q Year = %d", tt.date, d.Day, d.Year)
		}
		if d.IsHoliday != tt.holiday || d.IsWorkday != tt.workday {
			t.Errorf("%s: holiday=%v workday=%v, want %v/%v", tt.date, d.IsHoliday, d.IsWorkday, tt.holiday, tt.workday)
		}
	}

	// Gap rows are placeholders.
	if got.Descriptions[1].Total != nil {
		t.Errorf("filled gap has total %v", *got.Descriptions[1].Total)
	}

	fell, woke := got.Events[0], got.Events[1]
	if fell.Event != models.FellAsleep || woke.Event != models.WokeUp || fell.SessionID != 0 {
		t.Fatalf("first events = %+v, %+v", fell, woke)
	}
	if fell.ToD == nil || *fell.ToD != -1 {
		t.Errorf("fell asleep ToD = %v, want -1", fell.ToD)
	}
	if woke.ToD == nil || *woke.ToD != 7 {
		t.Errorf("woke up ToD = %v, want 7", woke.ToD)
	}
	if fell.DateTimeStr == nil || *fell.DateTimeStr != "January 01, 2020, 11:00:00 PM" {
		t.Errorf("DateTimeStr = %v", fell.DateTimeStr)
	}
	gap := got.Events[2]
	if gap.SessionID != 1 || gap.DateTime != nil || gap.ToD != nil || gap.DateTimeStr != nil {
		t.Errorf("gap event = %+v, want all null", gap)
	}

	if len(got.Dates) != 6 || got.Dates[5] != day("2020-01-06") {
		t.Errorf("Dates = %v", got.Dates)
	}
}

func TestDeriveWorkdayWindows(t *testing.T) {
	t.Parallel()

	// Christmas 2019 is a Wednesday.
	unioned := nightsBetween("2019-12-20", "2020-01-10")
	opts := DeriveOptions{
		Calendar: calendar.Options{
			WeekendDays:     []time.Weekday{time.Friday, time.Saturday},
			ChristmasBefore: 1,
			ChristmasAfter:  6,
			LeavePeriods:    []calendar.Period{{Start: day("2020-01-08"), End: day("2020-01-09")}},
		},
		Location: est,
	}
	got, err := Derive(unioned, opts)
	if err != nil {
		t.Fatal(err)
	}
	byDate := make(map[models.Date]models.SessionDescription, len(got.Descriptions))
	for _, d := range got.Descriptions {
		byDate[d.PrevDay] = d
	}

	for _, tc := range []struct {
		date    string
		workday bool
	}{
		{"2019-12-23", true},  // Monday before the window
		{"2019-12-24", false}, // Christmas - 1
		{"2019-12-25", false}, // holiday
		{"2019-12-30", false}, // Christmas + 5
		{"2019-12-31", false}, // Christmas + 6
		{"2020-01-02", true},
		{"2020-01-07", true},
		{"2020-01-08", false}, // leave
		{"2020-01-09", false}, // leave
	} {
		if got := byDate[day(tc.date)].IsWorkday; got != tc.workday {
			t.Errorf("%s IsWorkday = %v, want %v", tc.date, got, tc.workday)
		}
	}
}

func TestDeriveStableSessionIDs(t *testing.T) {
	t.Parallel()

	unioned := nightsBetween("2020-01-01", "2020-01-04")
	prior := map[models.Date]int64{
		day("2020-01-02"): 0,
		day("2020-01-03"): 1,
		day("2019-06-01"): 4,
	}

	got, err := Derive(unioned, DeriveOptions{Location: est, PriorIDs: prior})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int64{
		"2020-01-02": 0,
		"2020-01-03": 1,
		"2020-01-01": 5,
		"2020-01-04": 6,
		"2019-06-01": 4,
	}
	for date, id := range want {
		if got.SessionIDs[day(date)] != id {
			t.Errorf("id(%s) = %d, want %d", date, got.SessionIDs[day(date)], id)
		}
	}
	if got.Descriptions[0].PrevDay != day("2020-01-02") || got.Descriptions[3].PrevDay != day("2020-01-04") {
		t.Errorf("descriptions not ordered by session id: %v..%v", got.Descriptions[0].PrevDay, got.Descriptions[3].PrevDay)
	}

	again, err := Derive(unioned, DeriveOptions{Location: est, PriorIDs: got.SessionIDs})
	if err != nil {
		t.Fatal(err)
	}
	for d, id := range got.SessionIDs {
		if again.SessionIDs[d] != id {
			t.Errorf("re-derivation moved %s from %d to %d", d, id, again.SessionIDs[d])
		}
	}
}

func TestDeriveEmptyAndDuplicate(t *testing.T) {
	t.Parallel()

	got, err := Derive(nil, DeriveOptions{})
	if err != nil || len(got.Descriptions) != 0 || len(got.Events) != 0 {
		t.Errorf("Derive(nil) = %+v, %v", got, err)
	}

	dup := models.NightTable{
		night("2020-01-01", hours(7), models.SourceGarmin),
		night("2020-01-01", hours(6), models.SourceLegacy),
	}
	if _, err := Derive(dup, DeriveOptions{}); !errors.Is(err, models.ErrSchema) {
		t.Errorf("Derive(duplicate) error = %v, want ErrSchema", err)
	}
}

type fakeAlmanac struct {
	calls  []models.Date
	failAt int
}

func (f *fakeAlmanac) SunTimes(_ context.Context, d models.Date) (*intsync.SunTimes, error) {
	f.calls = append(f.calls, d)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, &intsync.ProviderError{Provider: intsync.ProviderAlmanac, StatusCode: 400, Message: "INVALID_DATE"}
	}
	return &intsync.SunTimes{
		Date:    d,
		Sunrise: time.Date(d.Year, d.Month, d.Day, 11, 30, 0, 0, time.UTC),
		Sunset:  time.Date(d.Year, d.Month, d.Day, 22, 15, 0, 0, time.UTC),
	}, nil
}

func TestSyncAlmanac(t *testing.T) {
	t.Parallel()

	dates := models.DateRange(day("2020-01-01"), day("2020-01-03"))
	existing := models.SolarTable{{
		Date:       day("2020-01-02"),
		Sunrise:    time.Date(2020, 1, 2, 6, 30, 0, 0, est),
		SunriseToD: 6.5,
		Sunset:     time.Date(2020, 1, 2, 17, 15, 0, 0, est),
		SunsetToD:  -6.75,
	}}

	alm := &fakeAlmanac{}
	got, added, err := SyncAlmanac(context.Background(), alm, dates, existing, est)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 || len(got) != 3 {
		t.Fatalf("added = %d, rows = %d, want 2 and 3", added, len(got))
	}
	if len(alm.calls) != 2 || alm.calls[0] != day("2020-01-01") || alm.calls[1] != day("2020-01-03") {
		t.Errorf("requested %v", alm.calls)
	}
	first := got[0]
	if first.Date != day("2020-01-01") || first.SunriseToD != 6.5 || first.SunsetToD != -6.75 {
		t.Errorf("first row = %+v", first)
	}
	if first.Sunrise.Location() != est {
		t.Errorf("sunrise location = %v, want EST", first.Sunrise.Location())
	}

	again := &fakeAlmanac{}
	if _, added, err := SyncAlmanac(context.Background(), again, dates, got, est); err != nil || added != 0 || len(again.calls) != 0 {
		t.Errorf("second sync added %d with %d calls, err %v", added, len(again.calls), err)
	}
}

func TestSyncAlmanacFailureWritesNothing(t *testing.T) {
	t.Parallel()

	dates := models.DateRange(day("2020-01-01"), day("2020-01-05"))
	alm := &fakeAlmanac{failAt: 2}
	got, added, err := SyncAlmanac(context.Background(), alm, dates, nil, est)

	var pe *intsync.ProviderError
	if !errors.As(err, &pe) || pe.Message != "INVALID_DATE" {
		t.Fatalf("error = %v, want provider error", err)
	}
	if got != nil || added != 0 {
		t.Errorf("partial result returned: %d rows, %d added", len(got), added)
	}
	if len(alm.calls) != 2 {
		t.Errorf("remaining dates requested after failure: %d calls", len(alm.calls))
	}
}

func TestWriteRawDump(t *testing.T) {
	t.Parallel()

	var decoded intsync.RawNight
	if err := json.Unmarshal([]byte(`{"calendarDate":"2020-01-02","sleepTimeSeconds":28800,"extra":1}`), &decoded); err != nil {
		t.Fatal(err)
	}
	raw := []intsync.RawNight{decoded, rawFor(day("2020-01-02"), nil)}

	path := filepath.Join(t.TempDir(), "dump", "raw.json")
	if err := WriteRawDump(path, raw); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("dump is not a JSON array: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if _, ok := entries[0]["extra"]; !ok {
		t.Errorf("unknown provider field not preserved: %v", entries[0])
	}
	if entries[1]["calendarDate"] != "2020-01-03" {
		t.Errorf("second entry = %v", entries[1])
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}
}

func TestCalendarOptions(t *testing.T) {
	t.Parallel()

	w := &config.WorkdaysConfig{
		WeekendDays:     []string{"Friday", "saturday"},
		LeavePeriods:    []config.LeavePeriod{{Start: "2019-10-28"}, {Start: "2019-01-01", End: "2019-01-05"}},
		ChristmasBefore: 1,
		ChristmasAfter:  6,
	}
	opts, err := CalendarOptions(w, day("2020-01-15"))
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.WeekendDays) != 2 || opts.WeekendDays[0] != time.Friday || opts.WeekendDays[1] != time.Saturday {
		t.Errorf("WeekendDays = %v", opts.WeekendDays)
	}
	if opts.LeavePeriods[0].End != day("2020-01-15") {
		t.Errorf("open leave period ends %s, want range end", opts.LeavePeriods[0].End)
	}
	if opts.LeavePeriods[1].End != day("2019-01-05") {
		t.Errorf("closed leave period ends %s", opts.LeavePeriods[1].End)
	}

	if _, err := CalendarOptions(&config.WorkdaysConfig{WeekendDays: []string{"Caturday"}}, day("2020-01-15")); err == nil {
		t.Error("unknown weekday accepted")
	}
}

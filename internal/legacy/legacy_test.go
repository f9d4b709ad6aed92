// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package legacy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/models"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("US/Eastern")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func str(s string) *string { return &s }

const export2017 = `Date,Event_Type,Start_Time,Wake_Up_Time,Seconds_Awake,Seconds_Asleep_Light,Seconds_Asleep_Restful,Calories
2017-01-01,Sleep,2017-01-01 23:10:00,2017-01-02 06:40:00,600,14400,10800,80
2017-01-03,Sleep,2017-01-03 00:30:00,2017-01-03 07:00:00,300,15000,7000,75
2017-01-03,Sleep,2017-01-03 14:00:00,2017-01-03 15:00:00,100,2000,1000,10
2017-01-04,Run,2017-01-04 07:00:00,,,,,400
2017-01-05,Sleep,2017-01-05 22:00:00,2017-01-06 06:00:00,,14400,10800,70
`

func TestLoaderReadsExports(t *testing.T) {
	loc := eastern(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName(2017)), []byte(export2017), 0o600); err != nil {
		t.Fatal(err)
	}

	nights, stats, err := NewLoader(dir, []int{2016, 2017}, loc).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if stats.Files != 1 || stats.MissingFiles != 1 {
		t.Errorf("files = %d, missing = %d; want 1, 1", stats.Files, stats.MissingFiles)
	}
	if stats.Rows != 4 || stats.Kept != 2 || stats.Naps != 1 || stats.UnknownTotal != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(nights) != 2 {
		t.Fatalf("Load() returned %d nights, want 2", len(nights))
	}

	first := nights[0]
	if first.PrevDay.String() != "2017-01-01" {
		t.Errorf("evening session PrevDay = %s, want 2017-01-01", first.PrevDay)
	}
	if first.Total == nil || *first.Total != 7*time.Hour+10*time.Minute {
		t.Errorf("Total = %v, want 7h10m", first.Total)
	}
	if first.Source != models.SourceLegacy {
		t.Errorf("Source = %q, want legacy", first.Source)
	}
	if first.BedTime == nil || first.BedTime.Location() != loc || first.BedTime.Hour() != 23 {
		t.Errorf("BedTime = %v", first.BedTime)
	}

	second := nights[1]
	if second.PrevDay.String() != "2017-01-02" {
		t.Errorf("after-midnight session PrevDay = %s, want 2017-01-02", second.PrevDay)
	}
}

func TestLoaderWithoutDirectory(t *testing.T) {
	t.Parallel()

	nights, stats, err := NewLoader("", []int{2015}, time.UTC).Load(context.Background())
	if err != nil || len(nights) != 0 || stats.Files != 0 {
		t.Errorf("Load() = %v, %+v, %v", nights, stats, err)
	}
}

func TestMapperToNight(t *testing.T) {
	loc := eastern(t)
	m := NewMapper(loc)

	tests := []struct {
		name        string
		rec         Record
		wantOutcome Outcome
		wantPrevDay string
		wantBedNil  bool
	}{
		{
			name: "us date layout",
			rec: Record{
				Date: str("3/4/2016"), StartTime: str("3/4/2016 10:45:00 PM"), WakeUpTime: str("3/5/2016 6:15:00 AM"),
				AwakeSeconds: str("900"), LightSeconds: str("16200.0"), RestfulSeconds: str("9000"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "short night session is kept",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 23:30:00"), WakeUpTime: str("2016-03-05 02:45:00"),
				AwakeSeconds: str("120"), LightSeconds: str("7200"), RestfulSeconds: str("4200"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "short session starting at 21:00 is kept",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 21:00:00"),
				AwakeSeconds: str("60"), LightSeconds: str("3600"), RestfulSeconds: str("1800"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "short evening session is a nap",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 20:30:00"),
				AwakeSeconds: str("60"), LightSeconds: str("3600"), RestfulSeconds: str("1800"),
			},
			wantOutcome: Nap,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "short early-morning session is kept",
			rec: Record{
				Date: str("2016-03-05"), StartTime: str("2016-03-05 03:00:00"),
				AwakeSeconds: str("60"), LightSeconds: str("3600"), RestfulSeconds: str("3600"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "short afternoon session is a nap",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 14:00:00"), WakeUpTime: str("2016-03-04 15:30:00"),
				AwakeSeconds: str("60"), LightSeconds: str("3600"), RestfulSeconds: str("1800"),
			},
			wantOutcome: Nap,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "long afternoon session is kept",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 13:00:00"),
				AwakeSeconds: str("600"), LightSeconds: str("10800"), RestfulSeconds: str("5400"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2016-03-04",
		},
		{
			name: "ambiguous fall-back bed time is unknown",
			rec: Record{
				Date: str("2017-11-05"), StartTime: str("2017-11-05 01:30:00"),
				AwakeSeconds: str("60"), LightSeconds: str("3600"), RestfulSeconds: str("3600"),
			},
			wantOutcome: Kept,
			wantPrevDay: "2017-11-05",
			wantBedNil:  true,
		},
		{
			name: "missing light sleep",
			rec: Record{
				Date: str("2016-03-04"), StartTime: str("2016-03-04 23:00:00"),
				AwakeSeconds: str("60"), RestfulSeconds: str("3600"),
			},
			wantOutcome: UnknownTotal,
			wantPrevDay: "2016-03-04",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			night, outcome, err := m.ToNight(&tt.rec)
			if err != nil {
				t.Fatalf("ToNight() = %v", err)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			if night.PrevDay.String() != tt.wantPrevDay {
				t.Errorf("PrevDay = %s, want %s", night.PrevDay, tt.wantPrevDay)
			}
			if (night.BedTime == nil) != tt.wantBedNil {
				t.Errorf("BedTime = %v, want nil=%v", night.BedTime, tt.wantBedNil)
			}
		})
	}
}

func TestMapperRejectsBadDate(t *testing.T) {
	t.Parallel()

	_, _, err := NewMapper(time.UTC).ToNight(&Record{Year: 2015, Line: 3, Date: str("yesterday")})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("ToNight() = %v, want ErrInvalidRecord", err)
	}
}

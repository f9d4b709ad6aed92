// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package config

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used throughout the configuration.
const DateLayout = "2006-01-02"

// Config is the complete application configuration. It is immutable after
// Load returns and safe for concurrent reads.
type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Almanac  AlmanacConfig  `koanf:"almanac"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Workdays WorkdaysConfig `koanf:"workdays"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Sentry   SentryConfig   `koanf:"sentry"`
}

// ProviderConfig configures the wearable sleep provider and how a session
// is obtained for it.
type ProviderConfig struct {
	SigninURL   string `koanf:"signin_url" validate:"required,url"`
	DataURL     string `koanf:"data_url" validate:"required,url"`
	RefererBase string `koanf:"referer_base" validate:"required,url"`

	// LoginMode is "form" (credentials posted to SigninURL) or "static"
	// (Cookie and SessionID copied from a browser session).
	LoginMode string `koanf:"login_mode" validate:"oneof=form static"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	Cookie    string `koanf:"cookie"`
	SessionID string `koanf:"session_id"`
	UserAgent string `koanf:"user_agent"`

	LoginTimeout   time.Duration `koanf:"login_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	MaxWindowDays  int           `koanf:"max_window_days" validate:"min=1,max=31"`
}

// AlmanacConfig configures the sunrise/sunset provider.
type AlmanacConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	Latitude          float64       `koanf:"latitude" validate:"latitude"`
	Longitude         float64       `koanf:"longitude" validate:"longitude"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	RequestTimeout    time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

// PipelineConfig controls the sync range and local data files.
type PipelineConfig struct {
	StartDate string `koanf:"start_date" validate:"civildate"`
	// EndDate is empty for "yesterday relative to the run".
	EndDate  string `koanf:"end_date" validate:"omitempty,civildate"`
	Timezone string `koanf:"timezone" validate:"timezone"`

	LegacyDir      string `koanf:"legacy_dir"`
	LegacyYears    []int  `koanf:"legacy_years" validate:"dive,min=2000,max=2100"`
	LegacyTimezone string `koanf:"legacy_timezone" validate:"timezone"`

	// RawDumpPath receives the concatenated provider payload of each run.
	// Empty disables the dump.
	RawDumpPath string `koanf:"raw_dump_path"`

	// StableSessionIDs keeps a persisted date to session-id mapping instead
	// of renumbering rows on every derivation.
	StableSessionIDs bool `koanf:"stable_session_ids"`
}

// Location loads the configured local timezone.
func (p PipelineConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// LegacyLocation loads the timezone legacy CSV clock times are recorded in.
func (p PipelineConfig) LegacyLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(p.LegacyTimezone)
	if err != nil {
		return nil, fmt.Errorf("load legacy timezone %q: %w", p.LegacyTimezone, err)
	}
	return loc, nil
}

// WorkdaysConfig holds the personal calendar used for workday features.
type WorkdaysConfig struct {
	// WeekendDays are bed-night weekdays that are never workdays. Friday and
	// Saturday nights precede the Saturday and Sunday wake-ups.
	WeekendDays []string `koanf:"weekend_days" validate:"dive,weekday"`

	// LeavePeriods are extended non-workday windows.
	LeavePeriods []LeavePeriod `koanf:"leave_periods" validate:"dive"`

	// ChristmasBefore/After widen each observed December holiday into a
	// vacation window of [holiday-before, holiday+after].
	ChristmasBefore int `koanf:"christmas_before" validate:"min=0,max=14"`
	ChristmasAfter  int `koanf:"christmas_after" validate:"min=0,max=14"`
}

// LeavePeriod is an inclusive date window. An empty End means "through the
// pipeline end date".
type LeavePeriod struct {
	Start string `koanf:"start" validate:"civildate"`
	End   string `koanf:"end" validate:"omitempty,civildate"`
}

// DatabaseConfig configures the DuckDB archive store.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"min=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	SyncRateLimit   int           `koanf:"sync_rate_limit" validate:"min=1"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SentryConfig enables error reporting of failed sync runs when DSN is set.
type SentryConfig struct {
	DSN         string `koanf:"dsn" validate:"omitempty,url"`
	Environment string `koanf:"environment"`
}

// Load reads defaults, the optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sleepwithdash/config.yaml",
	"/etc/sleepwithdash/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			SigninURL:      "https://connect.garmin.com/signin/",
			DataURL:        "https://connect.garmin.com/modern/proxy/wellness-service/wellness/dailySleepsByDate",
			RefererBase:    "https://connect.garmin.com/modern/sleep/",
			LoginMode:      "form",
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			LoginTimeout:   60 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxWindowDays:  31,
		},
		Almanac: AlmanacConfig{
			BaseURL:           "https://api.sunrise-sunset.org/json",
			Latitude:          39.76838,
			Longitude:         -86.15804,
			RequestsPerSecond: 5,
			RequestTimeout:    30 * time.Second,
		},
		Pipeline: PipelineConfig{
			StartDate:      "2017-03-01",
			EndDate:        "",
			Timezone:       "US/Eastern",
			LegacyDir:      "data",
			LegacyYears:    []int{2015, 2016, 2017},
			LegacyTimezone: "US/Eastern",
			RawDumpPath:    "data/new_garmin_sleep.json",
		},
		Workdays: WorkdaysConfig{
			WeekendDays: []string{"Friday", "Saturday"},
			LeavePeriods: []LeavePeriod{
				{Start: "2019-10-28"},
			},
			ChristmasBefore: 1,
			ChristmasAfter:  6,
		},
		Database: DatabaseConfig{
			Path:      "data/sleep.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8050,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SyncRateLimit:   6,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sentry: SentryConfig{
			Environment: "production",
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables listed in envMappings
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"pipeline.legacy_years",
	"workdays.weekend_days",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Provider
	"garmin_signin_url":      "provider.signin_url",
	"garmin_data_url":        "provider.data_url",
	"garmin_referer_base":    "provider.referer_base",
	"garmin_login_mode":      "provider.login_mode",
	"garmin_username":        "provider.username",
	"garmin_password":        "provider.password",
	"garmin_cookie":          "provider.cookie",
	"garmin_session_id":      "provider.session_id",
	"garmin_user_agent":      "provider.user_agent",
	"garmin_login_timeout":   "provider.login_timeout",
	"garmin_request_timeout": "provider.request_timeout",
	"garmin_max_window_days": "provider.max_window_days",

	// Almanac
	"almanac_url":                 "almanac.base_url",
	"almanac_latitude":            "almanac.latitude",
	"almanac_longitude":           "almanac.longitude",
	"almanac_requests_per_second": "almanac.requests_per_second",
	"almanac_request_timeout":     "almanac.request_timeout",

	// Pipeline
	"sync_start_date":         "pipeline.start_date",
	"sync_end_date":           "pipeline.end_date",
	"local_timezone":          "pipeline.timezone",
	"legacy_dir":              "pipeline.legacy_dir",
	"legacy_years":            "pipeline.legacy_years",
	"legacy_timezone":         "pipeline.legacy_timezone",
	"raw_dump_path":           "pipeline.raw_dump_path",
	"stable_session_ids":      "pipeline.stable_session_ids",
	"weekend_days":            "workdays.weekend_days",
	"christmas_vacation_pre":  "workdays.christmas_before",
	"christmas_vacation_post": "workdays.christmas_after",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"sync_rate_limit":       "server.sync_rate_limit",
	"cors_origins":          "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Sentry
	"sentry_dsn":         "sentry.dsn",
	"sentry_environment": "sentry.environment",
}

// envTransformFunc maps flat environment names to koanf paths. Unmapped
// names return "" and are skipped so unrelated variables never leak in.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

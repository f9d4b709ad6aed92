// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package config

import (
	"fmt"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateWorkdays()
}

func (c *Config) validateProvider() error {
	switch c.Provider.LoginMode {
	case "form":
		if c.Provider.Username == "" || c.Provider.Password == "" {
			return fmt.Errorf("GARMIN_USERNAME and GARMIN_PASSWORD are required when GARMIN_LOGIN_MODE=form")
		}
	case "static":
		if c.Provider.Cookie == "" || c.Provider.SessionID == "" {
			return fmt.Errorf("GARMIN_COOKIE and GARMIN_SESSION_ID are required when GARMIN_LOGIN_MODE=static")
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.EndDate == "" {
		return nil
	}
	start, _ := time.Parse(DateLayout, c.Pipeline.StartDate)
	end, _ := time.Parse(DateLayout, c.Pipeline.EndDate)
	if end.Before(start) {
		return fmt.Errorf("SYNC_END_DATE %s is before SYNC_START_DATE %s", c.Pipeline.EndDate, c.Pipeline.StartDate)
	}
	return nil
}

func (c *Config) validateWorkdays() error {
	for i, p := range c.Workdays.LeavePeriods {
		if p.End == "" {
			continue
		}
		start, _ := time.Parse(DateLayout, p.Start)
		end, _ := time.Parse(DateLayout, p.End)
		if end.Before(start) {
			return fmt.Errorf("workdays.leave_periods[%d]: end %s is before start %s", i, p.End, p.Start)
		}
	}
	return nil
}

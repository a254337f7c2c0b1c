package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dailiesbot/internal/calendar"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Reminder ReminderConfig `json:"reminder"`
	Logging  LoggingConfig  `json:"logging"`

	Storage  *StorageConfig  `json:"storage,omitempty"`
	Notifier *NotifierConfig `json:"notifier,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// RemindChat is the chat the daily reminder sweep posts into.
	RemindChat int64 `json:"remind_chat"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

// ReminderConfig controls when the daily sweep fires and how commands look.
type ReminderConfig struct {
	// Time is the local wall-clock time of the daily reminder, "HH:MM:SS".
	Time string `json:"time"`
	// Timezone is an IANA zone name (e.g. "America/New_York").
	Timezone string `json:"timezone"`
	// Prefix is the command prefix users type, e.g. "!" for "!add".
	Prefix string `json:"prefix"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./dailies_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// NotifierConfig controls the outbound message pipeline.
//
// All durations are Go duration strings (e.g. "500ms", "10s").
// If the whole section is omitted, runtime defaults apply.
type NotifierConfig struct {
	QueueSize     int    `json:"queue_size"`
	RatePerSec    int    `json:"rate_per_sec"`
	RetryMax      int    `json:"retry_max"`
	RetryBase     string `json:"retry_base"`
	RetryMaxDelay string `json:"retry_max_delay"`
}

const (
	DefaultRemindTime = "07:00:00"
	DefaultTimezone   = "UTC"
	DefaultPrefix     = "!"
)

// Normalize fills omitted reminder fields with their defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Reminder.Time) == "" {
		c.Reminder.Time = DefaultRemindTime
	}
	if strings.TrimSpace(c.Reminder.Timezone) == "" {
		c.Reminder.Timezone = DefaultTimezone
	}
	if c.Reminder.Prefix == "" {
		c.Reminder.Prefix = DefaultPrefix
	}
}

// Validate checks the fields the bot cannot run without. It is also the
// gate for hot reloads: a config that fails here is rejected without
// touching the running services.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if _, err := time.Parse(calendar.TimeFormat, c.Reminder.Time); err != nil {
		return fmt.Errorf("reminder.time: must be HH:MM:SS, got %q", c.Reminder.Time)
	}
	if _, err := time.LoadLocation(c.Reminder.Timezone); err != nil {
		return fmt.Errorf("reminder.timezone: unknown zone %q", c.Reminder.Timezone)
	}
	if strings.TrimSpace(c.Reminder.Prefix) == "" {
		return errors.New("reminder.prefix must not be blank")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if s := c.Storage; s != nil {
		if _, err := ParseDurationField("storage.busy_timeout", s.BusyTimeout); err != nil {
			return err
		}
	}
	if n := c.Notifier; n != nil {
		if _, err := ParseDurationField("notifier.retry_base", n.RetryBase); err != nil {
			return err
		}
		if _, err := ParseDurationField("notifier.retry_max_delay", n.RetryMaxDelay); err != nil {
			return err
		}
	}
	return nil
}

// Location resolves the configured reminder timezone. Call Validate first;
// an invalid zone here falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}

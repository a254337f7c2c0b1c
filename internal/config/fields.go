package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dailiesbot/internal/calendar"
)

// FieldError reports a bad value for a user-settable field. Its message is
// shown to the user verbatim, so keep it free of internal detail.
type FieldError struct {
	Name string
	Msg  string
}

func (e *FieldError) Error() string { return e.Msg }

func fieldErrf(name, format string, args ...any) *FieldError {
	return &FieldError{Name: name, Msg: fmt.Sprintf(format, args...)}
}

// FieldNames lists the settings users may read and write from chat, in the
// order the config command reports them.
func FieldNames() []string {
	return []string{"prefix", "remind_time", "timezone", "remind_chat"}
}

// Field reads one user-visible setting by name.
func (c *Config) Field(name string) (string, error) {
	switch name {
	case "prefix":
		return c.Reminder.Prefix, nil
	case "remind_time":
		return c.Reminder.Time, nil
	case "timezone":
		return c.Reminder.Timezone, nil
	case "remind_chat":
		return strconv.FormatInt(c.Telegram.RemindChat, 10), nil
	default:
		return "", fieldErrf(name, "Unknown setting `%s`, must be one of: %s",
			name, strings.Join(FieldNames(), ", "))
	}
}

// SetField validates and applies one user-visible setting by name.
func (c *Config) SetField(name, value string) error {
	switch name {
	case "prefix":
		if strings.TrimSpace(value) == "" {
			return fieldErrf(name, "Prefix must not be blank")
		}
		c.Reminder.Prefix = value
	case "remind_time":
		if _, err := time.Parse(calendar.TimeFormat, value); err != nil {
			return fieldErrf(name, "Invalid time, must be HH:MM:SS: %s", value)
		}
		c.Reminder.Time = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fieldErrf(name, "Unknown timezone: %s", value)
		}
		c.Reminder.Timezone = value
	case "remind_chat":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fieldErrf(name, "Chat id must be an integer: %s", value)
		}
		c.Telegram.RemindChat = id
	default:
		return fieldErrf(name, "Unknown setting `%s`, must be one of: %s",
			name, strings.Join(FieldNames(), ", "))
	}
	return nil
}

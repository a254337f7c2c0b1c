package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
)

var ErrNotFound = errors.New("chore not found")

// Config carries the sweep timing settings.
type Config struct {
	// RemindTime is the daily sweep wall-clock time, "HH:MM:SS".
	RemindTime string
	// Timezone is an IANA zone name the sweep time is interpreted in.
	Timezone string
}

func (c Config) remindClock() (hour, min, sec int, err error) {
	t, err := time.Parse(calendar.TimeFormat, c.RemindTime)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("remind time: must be HH:MM:SS, got %q", c.RemindTime)
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}

func (c Config) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: unknown zone %q", c.Timezone)
	}
	return loc, nil
}

// Clock abstracts "now" so sweeps and occurrence math are testable with
// fixed instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Entry is one registered chore.
type Entry struct {
	ID    int
	Chore chore.Chore
}

// Occurrence is one pending occurrence: a chore and its next due date.
type Occurrence struct {
	ID    int
	Date  time.Time
	Chore chore.Chore
}

// DueList groups the chores fired by one sweep by responsible user.
type DueList map[int64][]Entry

// Users returns the user ids with due chores in ascending order, so sweep
// output is deterministic.
func (d DueList) Users() []int64 {
	users := make([]int64, 0, len(d))
	for u := range d {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

func (d DueList) Empty() bool { return len(d) == 0 }

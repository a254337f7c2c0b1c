// Package chore defines the chore entity, its recurrence variants, the wire
// codec for the persisted snapshot, and the next-occurrence calculator.
package chore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dailiesbot/internal/calendar"
)

// Unit is the recurrence interval unit. The letter codes are the wire and
// command grammar form; they never drive logic outside this package.
type Unit string

const (
	UnitDays   Unit = "d"
	UnitWeeks  Unit = "w"
	UnitMonths Unit = "m"
)

func (u Unit) Valid() bool {
	return u == UnitDays || u == UnitWeeks || u == UnitMonths
}

// MonthDayBound limits the month-day offset accepted from commands so the
// resolved day stays inside any month for the end-relative form.
const MonthDayBound = 20

// Chore is a recurring or one-off obligation. Exactly one recurrence mode is
// set: Interval+Unit (+Weekday or MonthDays) for recurring chores, or Date
// for one-off chores.
type Chore struct {
	Title     string
	User      int64
	Interval  int
	Unit      Unit
	Weekday   calendar.Weekday
	MonthDays int
	Date      time.Time
}

// Fixed reports whether the chore is a one-off fixed-date chore.
func (c Chore) Fixed() bool { return !c.Date.IsZero() }

// Validate checks the exactly-one-recurrence-mode invariant and the
// per-variant field constraints.
func (c Chore) Validate() error {
	if c.Title == "" {
		return errors.New("chore title is empty")
	}
	if c.Fixed() {
		if c.Interval != 0 || c.Unit != "" || c.Weekday != "" || c.MonthDays != 0 {
			return errors.New("fixed-date chore must not carry interval fields")
		}
		return nil
	}
	if !c.Unit.Valid() {
		return fmt.Errorf("invalid recurrence unit %q", string(c.Unit))
	}
	if c.Interval <= 0 {
		return fmt.Errorf("recurrence interval must be positive, got %d", c.Interval)
	}
	switch c.Unit {
	case UnitWeeks:
		if !c.Weekday.Valid() {
			return fmt.Errorf("invalid weekday %q", string(c.Weekday))
		}
	case UnitMonths:
		if c.MonthDays < -MonthDayBound || c.MonthDays > MonthDayBound {
			return fmt.Errorf("month day offset %d out of range [-%d, %d]", c.MonthDays, MonthDayBound, MonthDayBound)
		}
	}
	return nil
}

// choreJSON is the snapshot wire form. Absent recurrence fields serialize as
// null so the document round-trips exactly.
type choreJSON struct {
	Title     string  `json:"title"`
	Interval  *int    `json:"interval"`
	Unit      *string `json:"unit"`
	Weekday   *string `json:"weekday"`
	MonthDays int     `json:"monthdays"`
	Date      *string `json:"date"`
	User      int64   `json:"user"`
}

func (c Chore) MarshalJSON() ([]byte, error) {
	w := choreJSON{Title: c.Title, MonthDays: c.MonthDays, User: c.User}
	if !c.Fixed() {
		iv := c.Interval
		unit := string(c.Unit)
		w.Interval = &iv
		w.Unit = &unit
		if c.Unit == UnitWeeks {
			wd := string(c.Weekday)
			w.Weekday = &wd
		}
	} else {
		d := calendar.FormatDate(c.Date)
		w.Date = &d
	}
	return json.Marshal(w)
}

func (c *Chore) UnmarshalJSON(data []byte) error {
	var w choreJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Chore{Title: w.Title, MonthDays: w.MonthDays, User: w.User}
	if w.Interval != nil {
		out.Interval = *w.Interval
	}
	if w.Unit != nil {
		out.Unit = Unit(*w.Unit)
	}
	if w.Weekday != nil {
		out.Weekday = calendar.Weekday(*w.Weekday)
	}
	if w.Date != nil {
		d, err := calendar.ParseDate(*w.Date)
		if err != nil {
			return fmt.Errorf("chore %q: invalid date %q: %w", w.Title, *w.Date, err)
		}
		out.Date = d
	}
	*c = out
	return nil
}

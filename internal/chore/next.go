package chore

import (
	"fmt"
	"time"

	"dailiesbot/internal/calendar"
)

// NextOccurrence computes the next due date for a chore, strictly after
// today whenever prev is zero, and never earlier than tomorrow otherwise.
// today must be a civil date (calendar.DateOf); prev is the previously
// scheduled occurrence, zero when the chore has never been scheduled.
//
// Fixed-date chores return their stored date unconditionally.
//
// Recurring chores keep their cadence anchored to prev when checks ran on
// time, and correct drift forward (never into the past) when they did not:
//
//   - days: first occurrence is always tomorrow; afterwards
//     today + max(interval - elapsed, 1).
//   - weeks: prev is snapped back to the configured weekday before adding
//     interval*7; a result on/before today falls through to the next
//     matching weekday after today (a full week out when today matches).
//   - months: a prev before the target day-of-month is attributed to the
//     prior month before adding interval months; a stale result falls
//     through to this month's target day, or next month's when passed.
//
// An invalid unit or weekday reaching this function is a programming error
// and panics; validated chores cannot trigger it.
func NextOccurrence(c Chore, today, prev time.Time) time.Time {
	if c.Fixed() {
		return c.Date
	}

	switch c.Unit {
	case UnitDays:
		if prev.IsZero() {
			// The declared interval only governs subsequent spacing.
			return today.AddDate(0, 0, 1)
		}
		elapsed := calendar.DaysBetween(prev, today)
		ahead := c.Interval - elapsed
		if ahead < 1 {
			ahead = 1
		}
		return today.AddDate(0, 0, ahead)

	case UnitWeeks:
		target := c.Weekday.Index()
		if target < 0 {
			panic(fmt.Sprintf("chore: invalid weekday %q", string(c.Weekday)))
		}
		if !prev.IsZero() {
			// Snap a drifted previous date back to the weekday it stood for.
			pw := calendar.GoWeekdayIndex(prev)
			if pw > target {
				prev = prev.AddDate(0, 0, -(pw - target))
			} else if pw < target {
				prev = prev.AddDate(0, 0, -(7 - (target - pw)))
			}
			result := prev.AddDate(0, 0, c.Interval*7)
			if calendar.DaysBetween(today, result) > 0 {
				return result
			}
			// Stale: fall through to the next matching weekday.
		}
		cur := calendar.GoWeekdayIndex(today)
		if cur < target {
			return today.AddDate(0, 0, target-cur)
		}
		return today.AddDate(0, 0, 7+(target-cur))

	case UnitMonths:
		day := calendar.ResolveMonthDay(today.Year(), int(today.Month()), c.MonthDays)
		if !prev.IsZero() {
			year, month := prev.Year(), int(prev.Month())
			if prev.Day() < day {
				// The previous occurrence belonged to the prior month.
				year, month = calendar.AddMonths(year, month, -1)
			}
			year, month = calendar.AddMonths(year, month, c.Interval)
			d := calendar.ResolveMonthDay(year, month, c.MonthDays)
			result := calendar.Date(year, month, d)
			if calendar.DaysBetween(today, result) > 0 {
				return result
			}
		}
		if today.Day() < day {
			return calendar.Date(today.Year(), int(today.Month()), day)
		}
		year, month := calendar.AddMonths(today.Year(), int(today.Month()), 1)
		d := calendar.ResolveMonthDay(year, month, c.MonthDays)
		return calendar.Date(year, month, d)
	}

	panic(fmt.Sprintf("chore: invalid recurrence unit %q", string(c.Unit)))
}

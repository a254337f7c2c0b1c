// Package calendar holds the pure calendar arithmetic the recurrence
// calculator is built on: month rollover, nth-from-end day-of-month
// resolution, and midnight-normalized civil dates.
package calendar

import "time"

// Wire formats shared by the snapshot and config documents.
const (
	DateFormat = "2006/01/02"
	TimeFormat = "15:04:05"
)

// AddMonths advances (year, month) by delta months. Month is 1..12 on both
// sides; delta may be negative. The result is normalized with year carry.
func AddMonths(year, month, delta int) (int, int) {
	m := month - 1 + delta
	newMonth := m % 12
	newYear := year + m/12
	if newMonth < 0 {
		newMonth += 12
		newYear--
	}
	return newYear, newMonth + 1
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ResolveMonthDay turns a signed month-day offset into a day-of-month.
// A positive offset is returned verbatim; non-positive offsets count from
// the end of the month, with both -1 and 0 meaning the last day and -2 the
// day before it.
//
// Positive offsets are NOT clamped to the month length. Callers that build a
// date from the result rely on time.Date normalization, so day 31 in a
// 30-day month rolls into the next month.
func ResolveMonthDay(year, month, offset int) int {
	days := DaysInMonth(year, month)
	switch {
	case offset > 0:
		return offset
	case offset == 0:
		return days
	}
	return days + offset + 1
}

// Date builds a civil date: midnight UTC on the given day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates a wall-clock instant to the civil date it falls on in its
// own location, re-anchored at midnight UTC so dates compare exactly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, int(m), d)
}

// DaysBetween returns b - a in whole days. Both arguments must be civil
// dates produced by Date/DateOf.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// GoWeekdayIndex maps a date's weekday to the Monday-based index used by
// weekly recurrence (0=Monday .. 6=Sunday).
func GoWeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FormatDate renders a civil date in the snapshot wire format.
func FormatDate(t time.Time) string { return t.Format(DateFormat) }

// ParseDate parses the snapshot wire format back into a civil date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

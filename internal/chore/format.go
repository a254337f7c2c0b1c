package chore

import (
	"fmt"

	"dailiesbot/internal/calendar"
)

// Mention renders the platform user mention the command grammar accepts.
func Mention(user int64) string { return fmt.Sprintf("<@%d>", user) }

// FormatInterval renders the recurrence spacing as a phrase: "day",
// "2 weeks", "3 months". Empty for fixed-date chores.
func (c Chore) FormatInterval() string {
	var unit string
	switch c.Unit {
	case UnitDays:
		unit = "day"
	case UnitWeeks:
		unit = "week"
	case UnitMonths:
		unit = "month"
	default:
		return ""
	}
	if c.Interval == 1 {
		return unit
	}
	return fmt.Sprintf("%d %ss", c.Interval, unit)
}

// Describe renders the full human-readable recurrence rule for list output.
func (c Chore) Describe() string {
	if c.Fixed() {
		return "on " + calendar.FormatDate(c.Date)
	}
	switch c.Unit {
	case UnitWeeks:
		return fmt.Sprintf("every %s on %s", c.FormatInterval(), c.Weekday.Name())
	case UnitMonths:
		return fmt.Sprintf("every %s on the %s", c.FormatInterval(), describeMonthDay(c.MonthDays))
	default:
		return "every " + c.FormatInterval()
	}
}

func describeMonthDay(offset int) string {
	switch {
	case offset > 0:
		return Ordinal(offset) + " day"
	case offset == 0 || offset == -1:
		return "last day"
	default:
		return Ordinal(-offset) + " day from the end"
	}
}

// Ordinal renders 1 -> "1st", 2 -> "2nd", 23 -> "23rd", 111 -> "111th".
func Ordinal(n int) string {
	switch {
	case n%10 == 1 && n%100 != 11:
		return fmt.Sprintf("%dst", n)
	case n%10 == 2 && n%100 != 12:
		return fmt.Sprintf("%dnd", n)
	case n%10 == 3 && n%100 != 13:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

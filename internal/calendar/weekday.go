package calendar

import "strings"

// Weekday is the single-letter weekday code used on the wire and in the
// add-command grammar: m t w r f s u for Monday..Sunday.
type Weekday string

const (
	Monday    Weekday = "m"
	Tuesday   Weekday = "t"
	Wednesday Weekday = "w"
	Thursday  Weekday = "r"
	Friday    Weekday = "f"
	Saturday  Weekday = "s"
	Sunday    Weekday = "u"
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Index returns the weekday position, 0=Monday .. 6=Sunday, or -1 for an
// unknown code.
func (w Weekday) Index() int {
	switch w {
	case Monday:
		return 0
	case Tuesday:
		return 1
	case Wednesday:
		return 2
	case Thursday:
		return 3
	case Friday:
		return 4
	case Saturday:
		return 5
	case Sunday:
		return 6
	}
	return -1
}

func (w Weekday) Valid() bool { return w.Index() >= 0 }

// Name returns the long English weekday name, or "Unknown".
func (w Weekday) Name() string {
	if n, ok := weekdayNames[w]; ok {
		return n
	}
	return "Unknown"
}

// ParseWeekday accepts a full English weekday name or a single-letter code,
// case-insensitive. Sunday shortens to "u" and Thursday to "r"; every other
// name shortens to its first letter.
func ParseWeekday(s string) (Weekday, bool) {
	switch strings.ToLower(s) {
	case "monday", "m":
		return Monday, true
	case "tuesday", "t":
		return Tuesday, true
	case "wednesday", "w":
		return Wednesday, true
	case "thursday", "r":
		return Thursday, true
	case "friday", "f":
		return Friday, true
	case "saturday", "s":
		return Saturday, true
	case "sunday", "u":
		return Sunday, true
	}
	return "", false
}

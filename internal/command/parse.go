// Package command turns prefix-stripped chat tokens into validated chores
// and parses the free-standing duration tokens used by delay.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
)

// ParseError is a user-facing parse failure. The message names the offending
// token or field and is sent back to the chat verbatim.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseErrf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// dateFormats are tried in order; the first successful parse wins.
var dateFormats = []string{
	"2006/01/02",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
}

// ParseChore parses the argument tokens of the add command:
//
//	<title> <@user> every <N><d|w|m> [weekday|monthday]
//	<title> <@user> on <date>
//
// A title starting with a double quote greedily consumes tokens until one
// ends with the closing quote. today is the civil date used to validate
// fixed dates. All failures are *ParseError values.
func ParseChore(tokens []string, today time.Time) (chore.Chore, error) {
	var c chore.Chore
	if len(tokens) == 0 {
		return c, parseErrf("Missing arguments, must specify title, user, and time")
	}

	c.Title = tokens[0]
	n := 1
	if strings.HasPrefix(tokens[0], `"`) {
		title, consumed, err := parseQuotedTitle(tokens)
		if err != nil {
			return c, err
		}
		c.Title = title
		n = consumed
	}

	if len(tokens) < n+3 {
		return c, parseErrf("Missing arguments, must specify title, user, and time")
	}

	user, err := parseUser(tokens[n])
	if err != nil {
		return c, err
	}
	c.User = user

	switch tokens[n+1] {
	case "every":
		if err := parseRecurrence(&c, tokens[n+2:]); err != nil {
			return c, err
		}
	case "on":
		d, err := parseFixedDate(tokens[n+2], today)
		if err != nil {
			return c, err
		}
		c.Date = d
	default:
		return c, parseErrf("Invalid argument, must be `every` or `on`: %s", tokens[n+1])
	}

	return c, nil
}

// parseQuotedTitle joins tokens up to the one ending with the closing quote,
// returning the title and the number of tokens consumed.
func parseQuotedTitle(tokens []string) (string, int, error) {
	first := strings.TrimPrefix(tokens[0], `"`)
	if strings.HasSuffix(first, `"`) && len(first) > 0 {
		return strings.TrimSuffix(first, `"`), 1, nil
	}
	parts := []string{first}
	for i, word := range tokens[1:] {
		if strings.HasSuffix(word, `"`) {
			parts = append(parts, strings.TrimSuffix(word, `"`))
			return strings.Join(parts, " "), i + 2, nil
		}
		parts = append(parts, word)
	}
	return "", 0, parseErrf(`Invalid chore title, must close string with another double-quote (")`)
}

// parseUser parses a <@DIGITS> mention into the platform user id.
func parseUser(token string) (int64, error) {
	if len(token) < 4 || !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return 0, parseErrf("Invalid user: %s", token)
	}
	raw := token[2 : len(token)-1]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, parseErrf("Invalid user ID: %s", raw)
	}
	return id, nil
}

// parseRecurrence fills the interval fields from the tokens after "every".
func parseRecurrence(c *chore.Chore, args []string) error {
	duration := args[0]
	n, unit, ok := ParseDuration(duration)
	if !ok {
		if duration == "" || !strings.ContainsAny(strings.ToLower(duration[len(duration)-1:]), "dwm") {
			return parseErrf("Invalid duration, must end in `d`, `w`, or `m`: %s", duration)
		}
		return parseErrf("Invalid duration, must begin with an integer: %s", duration)
	}
	if n <= 0 {
		return parseErrf("Invalid duration, interval must be positive: %s", duration)
	}
	c.Interval = n
	c.Unit = unit

	if unit != chore.UnitDays && len(args) < 2 {
		if unit == chore.UnitWeeks {
			return parseErrf("Must specify weekday (i.e. `monday`, `friday`)")
		}
		return parseErrf("Must specify number of days into month (i.e. `1`, `-3`)")
	}

	switch unit {
	case chore.UnitWeeks:
		wd, ok := calendar.ParseWeekday(args[1])
		if !ok {
			return parseErrf("Invalid weekday: %s", args[1])
		}
		c.Weekday = wd
	case chore.UnitMonths:
		md, err := strconv.Atoi(args[1])
		if err != nil {
			return parseErrf("Invalid month day, must be an integer: %s", args[1])
		}
		if md < -chore.MonthDayBound || md > chore.MonthDayBound {
			return parseErrf("Invalid month days, must be within [-%d, %d]: %d",
				chore.MonthDayBound, chore.MonthDayBound, md)
		}
		c.MonthDays = md
	}
	return nil
}

// parseFixedDate tries the accepted date formats in order and requires the
// result to fall strictly after today.
func parseFixedDate(token string, today time.Time) (time.Time, error) {
	for _, format := range dateFormats {
		d, err := time.ParseInLocation(format, token, time.UTC)
		if err != nil {
			continue
		}
		if calendar.DaysBetween(today, d) <= 0 {
			return time.Time{}, parseErrf("Invalid date, must occur after today: %s", token)
		}
		return d, nil
	}
	return time.Time{}, parseErrf("Invalid date, must be in `yyyy/mm/dd` or `mm/dd/yyyy` format: %s", token)
}

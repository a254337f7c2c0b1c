package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dailiesbot/internal/calendar"
	"dailiesbot/internal/chore"
)

var today = calendar.Date(2025, 6, 2) // a Monday

func TestParseChore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []string
		want   chore.Chore
	}{
		{
			name:   "every N days",
			tokens: []string{`"Do`, `the`, `dishes"`, "<@42>", "every", "2d"},
			want:   chore.Chore{Title: "Do the dishes", User: 42, Interval: 2, Unit: chore.UnitDays},
		},
		{
			name:   "bare title",
			tokens: []string{"dishes", "<@42>", "every", "1d"},
			want:   chore.Chore{Title: "dishes", User: 42, Interval: 1, Unit: chore.UnitDays},
		},
		{
			name:   "single-token quoted title",
			tokens: []string{`"dishes"`, "<@42>", "every", "1d"},
			want:   chore.Chore{Title: "dishes", User: 42, Interval: 1, Unit: chore.UnitDays},
		},
		{
			name:   "weekly with full weekday name",
			tokens: []string{`"Clean`, `bathroom"`, "<@9>", "every", "3w", "sunday"},
			want:   chore.Chore{Title: "Clean bathroom", User: 9, Interval: 3, Unit: chore.UnitWeeks, Weekday: calendar.Sunday},
		},
		{
			name:   "weekly with letter code",
			tokens: []string{"trash", "<@9>", "every", "1w", "r"},
			want:   chore.Chore{Title: "trash", User: 9, Interval: 1, Unit: chore.UnitWeeks, Weekday: calendar.Thursday},
		},
		{
			name:   "monthly negative offset",
			tokens: []string{`"Pay`, `rent"`, "<@7>", "every", "1m", "-1"},
			want:   chore.Chore{Title: "Pay rent", User: 7, Interval: 1, Unit: chore.UnitMonths, MonthDays: -1},
		},
		{
			name:   "fixed date slash format",
			tokens: []string{"signup", "<@3>", "on", "2025/07/01"},
			want:   chore.Chore{Title: "signup", User: 3, Date: calendar.Date(2025, 7, 1)},
		},
		{
			name:   "fixed date dash format",
			tokens: []string{"signup", "<@3>", "on", "2025-07-01"},
			want:   chore.Chore{Title: "signup", User: 3, Date: calendar.Date(2025, 7, 1)},
		},
		{
			name:   "fixed date US format",
			tokens: []string{"signup", "<@3>", "on", "07/01/2025"},
			want:   chore.Chore{Title: "signup", User: 3, Date: calendar.Date(2025, 7, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChore(tt.tokens, today)
			if err != nil {
				t.Fatalf("ParseChore error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("chore mismatch (-want +got):\n%s", diff)
			}
			if err := got.Validate(); err != nil {
				t.Fatalf("parsed chore fails validation: %v", err)
			}
		})
	}
}

func TestParseChoreErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		tokens  []string
		wantSub string
	}{
		{name: "no tokens", tokens: nil, wantSub: "Missing arguments"},
		{name: "too few tokens", tokens: []string{"title", "<@1>"}, wantSub: "Missing arguments"},
		{name: "unterminated quote", tokens: []string{`"Do`, "the", "dishes", "<@42>", "every", "2d"}, wantSub: "double-quote"},
		{name: "malformed user", tokens: []string{"t", "@42", "every", "2d"}, wantSub: "Invalid user: @42"},
		{name: "non-numeric user id", tokens: []string{"t", "<@abc>", "every", "2d"}, wantSub: "Invalid user ID: abc"},
		{name: "duration bad unit", tokens: []string{"t", "<@1>", "every", "2x"}, wantSub: "2x"},
		{name: "duration no integer", tokens: []string{"t", "<@1>", "every", "xd"}, wantSub: "must begin with an integer: xd"},
		{name: "weekly missing weekday", tokens: []string{"t", "<@1>", "every", "2w"}, wantSub: "Must specify weekday"},
		{name: "weekly bad weekday", tokens: []string{"t", "<@1>", "every", "2w", "funday"}, wantSub: "Invalid weekday: funday"},
		{name: "monthly missing offset", tokens: []string{"t", "<@1>", "every", "1m"}, wantSub: "number of days into month"},
		{name: "monthly non-integer offset", tokens: []string{"t", "<@1>", "every", "1m", "x"}, wantSub: "must be an integer: x"},
		{name: "monthly offset out of range", tokens: []string{"t", "<@1>", "every", "1m", "25"}, wantSub: "within [-20, 20]: 25"},
		{name: "neither every nor on", tokens: []string{"t", "<@1>", "weekly", "2d"}, wantSub: "`every` or `on`: weekly"},
		{name: "date in the past", tokens: []string{"t", "<@1>", "on", "2025/06/01"}, wantSub: "must occur after today: 2025/06/01"},
		{name: "date today", tokens: []string{"t", "<@1>", "on", "2025/06/02"}, wantSub: "must occur after today"},
		{name: "unparseable date", tokens: []string{"t", "<@1>", "on", "tomorrow"}, wantSub: "yyyy/mm/dd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChore(tt.tokens, today)
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		token string
		n     int
		unit  chore.Unit
		ok    bool
	}{
		{"2d", 2, chore.UnitDays, true},
		{"1w", 1, chore.UnitWeeks, true},
		{"3m", 3, chore.UnitMonths, true},
		{"2W", 2, chore.UnitWeeks, true},
		{"-1w", -1, chore.UnitWeeks, true},
		{"+4d", 4, chore.UnitDays, true},
		{"10m", 10, chore.UnitMonths, true},
		{"d", 0, "", false},
		{"2x", 0, "", false},
		{"xd", 0, "", false},
		{"", 0, "", false},
		{"2", 0, "", false},
	}
	for _, tt := range tests {
		n, unit, ok := ParseDuration(tt.token)
		if n != tt.n || unit != tt.unit || ok != tt.ok {
			t.Fatalf("ParseDuration(%q) = (%d, %q, %v), want (%d, %q, %v)",
				tt.token, n, unit, ok, tt.n, tt.unit, tt.ok)
		}
	}
}

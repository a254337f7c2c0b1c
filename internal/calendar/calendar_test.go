package calendar

import (
	"testing"
	"time"
)

func TestAddMonths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		year, month     int
		delta           int
		wantY, wantM    int
	}{
		{name: "no-op", year: 2025, month: 6, delta: 0, wantY: 2025, wantM: 6},
		{name: "within year", year: 2025, month: 3, delta: 4, wantY: 2025, wantM: 7},
		{name: "year carry", year: 2025, month: 11, delta: 3, wantY: 2026, wantM: 2},
		{name: "december plus one", year: 2025, month: 12, delta: 1, wantY: 2026, wantM: 1},
		{name: "multi year", year: 2025, month: 1, delta: 25, wantY: 2027, wantM: 2},
		{name: "negative within year", year: 2025, month: 6, delta: -2, wantY: 2025, wantM: 4},
		{name: "negative year borrow", year: 2025, month: 1, delta: -1, wantY: 2024, wantM: 12},
		{name: "negative multi year", year: 2025, month: 2, delta: -14, wantY: 2023, wantM: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m := AddMonths(tt.year, tt.month, tt.delta)
			if y != tt.wantY || m != tt.wantM {
				t.Fatalf("AddMonths(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.year, tt.month, tt.delta, y, m, tt.wantY, tt.wantM)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		year, month, want int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29}, // leap year
		{2000, 2, 29}, // divisible by 400
		{1900, 2, 28}, // century, not leap
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Fatalf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestResolveMonthDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		year, month, offs int
		want              int
	}{
		{name: "positive verbatim", year: 2025, month: 6, offs: 15, want: 15},
		{name: "positive beyond month length stays verbatim", year: 2025, month: 6, offs: 31, want: 31},
		{name: "minus one is last day", year: 2025, month: 1, offs: -1, want: 31},
		{name: "zero is last day", year: 2025, month: 1, offs: 0, want: 31},
		{name: "last day of leap february", year: 2024, month: 2, offs: -1, want: 29},
		{name: "last day of plain february", year: 2025, month: 2, offs: -1, want: 28},
		{name: "third from end", year: 2025, month: 4, offs: -3, want: 28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMonthDay(tt.year, tt.month, tt.offs); got != tt.want {
				t.Fatalf("ResolveMonthDay(%d, %d, %d) = %d, want %d",
					tt.year, tt.month, tt.offs, got, tt.want)
			}
		})
	}
}

func TestDateOfNormalizesToMidnightUTC(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	at := time.Date(2025, 6, 1, 23, 45, 0, 0, loc)
	got := DateOf(at)
	if want := Date(2025, 6, 1); !got.Equal(want) {
		t.Fatalf("DateOf = %v, want %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()
	a := Date(2025, 6, 1)
	b := Date(2025, 6, 15)
	if got := DaysBetween(a, b); got != 14 {
		t.Fatalf("DaysBetween = %d, want 14", got)
	}
	if got := DaysBetween(b, a); got != -14 {
		t.Fatalf("DaysBetween reversed = %d, want -14", got)
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()
	d := Date(2025, 6, 1)
	parsed, err := ParseDate(FormatDate(d))
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !parsed.Equal(d) {
		t.Fatalf("round trip = %v, want %v", parsed, d)
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Weekday
		ok   bool
	}{
		{"monday", Monday, true},
		{"Monday", Monday, true},
		{"m", Monday, true},
		{"sunday", Sunday, true},
		{"u", Sunday, true},
		{"thursday", Thursday, true},
		{"r", Thursday, true},
		{"SATURDAY", Saturday, true},
		{"funday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseWeekday(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWeekdayIndexMatchesGoWeekday(t *testing.T) {
	t.Parallel()
	// 2025-06-02 is a Monday.
	base := Date(2025, 6, 2)
	for i, w := range []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday} {
		if w.Index() != i {
			t.Fatalf("%s.Index() = %d, want %d", w.Name(), w.Index(), i)
		}
		day := base.AddDate(0, 0, i)
		if got := GoWeekdayIndex(day); got != i {
			t.Fatalf("GoWeekdayIndex(%v) = %d, want %d", day, got, i)
		}
	}
}

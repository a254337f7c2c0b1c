package chore

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dailiesbot/internal/calendar"
)

func TestChoreJSONRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		c    Chore
	}{
		{name: "daily", c: daily(2)},
		{name: "weekly", c: weekly(3, calendar.Sunday)},
		{name: "monthly positive", c: monthly(1, 15)},
		{name: "monthly from end", c: monthly(2, -3)},
		{name: "fixed date", c: Chore{Title: "Sign up for classes", User: 42, Date: date(2025, 6, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var got Chore
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.c, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChoreJSONWireShape(t *testing.T) {
	t.Parallel()
	c := Chore{Title: "Pay rent", User: 7, Interval: 1, Unit: UnitMonths, MonthDays: -1}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Pay rent","interval":1,"unit":"m","weekday":null,"monthdays":-1,"date":null,"user":7}`
	if string(b) != want {
		t.Fatalf("wire form = %s, want %s", b, want)
	}
}

func TestChoreJSONFixedDateWire(t *testing.T) {
	t.Parallel()
	c := Chore{Title: "x", User: 1, Date: date(2025, 6, 1)}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"x","interval":null,"unit":null,"weekday":null,"monthdays":0,"date":"2025/06/01","user":1}`
	if string(b) != want {
		t.Fatalf("wire form = %s, want %s", b, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		c       Chore
		wantErr bool
	}{
		{name: "daily ok", c: daily(2)},
		{name: "weekly ok", c: weekly(1, calendar.Monday)},
		{name: "monthly ok", c: monthly(1, -1)},
		{name: "fixed ok", c: Chore{Title: "x", User: 1, Date: date(2025, 6, 1)}},
		{name: "empty title", c: Chore{User: 1, Interval: 1, Unit: UnitDays}, wantErr: true},
		{name: "zero interval", c: Chore{Title: "x", Unit: UnitDays}, wantErr: true},
		{name: "bad unit", c: Chore{Title: "x", Interval: 1, Unit: "x"}, wantErr: true},
		{name: "weekly missing weekday", c: Chore{Title: "x", Interval: 1, Unit: UnitWeeks}, wantErr: true},
		{name: "monthday out of range", c: monthly(1, 21), wantErr: true},
		{name: "fixed with interval", c: Chore{Title: "x", Interval: 1, Unit: UnitDays, Date: date(2025, 6, 1)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatInterval(t *testing.T) {
	t.Parallel()
	tests := []struct {
		c    Chore
		want string
	}{
		{daily(1), "day"},
		{daily(2), "2 days"},
		{weekly(1, calendar.Friday), "week"},
		{weekly(3, calendar.Friday), "3 weeks"},
		{monthly(1, 1), "month"},
		{monthly(6, 1), "6 months"},
		{Chore{Title: "x", Date: date(2025, 6, 1)}, ""},
	}
	for _, tt := range tests {
		if got := tt.c.FormatInterval(); got != tt.want {
			t.Fatalf("FormatInterval() = %q, want %q", got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		c    Chore
		want string
	}{
		{daily(2), "every 2 days"},
		{weekly(3, calendar.Sunday), "every 3 weeks on Sunday"},
		{monthly(1, 15), "every month on the 15th day"},
		{monthly(1, -1), "every month on the last day"},
		{monthly(2, -3), "every 2 months on the 3rd day from the end"},
		{Chore{Title: "x", Date: date(2025, 6, 1)}, "on 2025/06/01"},
	}
	for _, tt := range tests {
		if got := tt.c.Describe(); got != tt.want {
			t.Fatalf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"},
		{21, "21st"}, {22, "22nd"}, {23, "23rd"}, {111, "111th"},
	}
	for _, tt := range tests {
		if got := Ordinal(tt.n); got != tt.want {
			t.Fatalf("Ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

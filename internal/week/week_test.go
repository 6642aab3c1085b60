package week

import (
	"testing"
	"time"
)

func TestStart(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{name: "monday maps to itself", day: "2026-10-19", want: "2026-10-19"},
		{name: "wednesday", day: "2026-10-21", want: "2026-10-19"},
		{name: "saturday", day: "2026-10-24", want: "2026-10-19"},
		{name: "sunday maps to previous monday", day: "2026-10-25", want: "2026-10-19"},
		{name: "crosses month boundary", day: "2026-11-01", want: "2026-10-26"},
		{name: "crosses year boundary", day: "2027-01-03", want: "2026-12-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StartOf(tt.day)
			if err != nil {
				t.Fatalf("StartOf(%q) error: %v", tt.day, err)
			}
			if got != tt.want {
				t.Fatalf("StartOf(%q) = %s, want %s", tt.day, got, tt.want)
			}
		})
	}
}

func TestSundayIsSixDaysAfterWeekStart(t *testing.T) {
	sunday := time.Date(2026, time.October, 25, 18, 30, 0, 0, time.Local)
	if sunday.Weekday() != time.Sunday {
		t.Fatalf("fixture is not a sunday: %s", sunday.Weekday())
	}
	start := Start(sunday)
	if start.Weekday() != time.Monday {
		t.Fatalf("expected monday, got %s", start.Weekday())
	}
	if diff := sunday.Sub(start); diff < 6*24*time.Hour || diff >= 7*24*time.Hour {
		t.Fatalf("expected week start six days before sunday, got %s", diff)
	}
}

func TestWindowAndNext(t *testing.T) {
	start, end, err := Window("2026-10-22")
	if err != nil {
		t.Fatalf("Window error: %v", err)
	}
	if start != "2026-10-19" || end != "2026-10-25" {
		t.Fatalf("unexpected window %s..%s", start, end)
	}

	d, _ := ParseDay("2026-10-25")
	if got := FormatDay(Next(d)); got != "2026-10-26" {
		t.Fatalf("Next = %s, want 2026-10-26", got)
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "2026/10/19", "yesterday"} {
		if _, err := ParseDay(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

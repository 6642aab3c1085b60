// Package week buckets calendar days into Monday-start review weeks.
package week

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar days.
const DateLayout = "2006-01-02"

// Start returns the Monday of the week containing day. Sunday belongs to the
// week that started six days earlier.
func Start(day time.Time) time.Time {
	d := truncate(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// End returns the Sunday closing the week containing day.
func End(day time.Time) time.Time {
	return Start(day).AddDate(0, 0, 6)
}

// Next returns the Monday of the week after the one containing day.
func Next(day time.Time) time.Time {
	return Start(day).AddDate(0, 0, 7)
}

// ParseDay parses a YYYY-MM-DD string as a local calendar day.
func ParseDay(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	d, err := time.ParseInLocation(DateLayout, trimmed, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// FormatDay renders day as YYYY-MM-DD.
func FormatDay(day time.Time) string {
	return day.Format(DateLayout)
}

// Today returns the current local calendar day as YYYY-MM-DD.
func Today(now time.Time) string {
	return FormatDay(now.In(time.Local))
}

// StartOf normalizes a YYYY-MM-DD string to the Monday of its week.
func StartOf(raw string) (string, error) {
	d, err := ParseDay(raw)
	if err != nil {
		return "", err
	}
	return FormatDay(Start(d)), nil
}

// Window returns the Monday and Sunday of the week beginning at weekStart.
func Window(weekStart string) (string, string, error) {
	d, err := ParseDay(weekStart)
	if err != nil {
		return "", "", err
	}
	return FormatDay(Start(d)), FormatDay(End(d)), nil
}

// AddDays shifts a YYYY-MM-DD string by n days.
func AddDays(raw string, n int) (string, error) {
	d, err := ParseDay(raw)
	if err != nil {
		return "", err
	}
	return FormatDay(d.AddDate(0, 0, n)), nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

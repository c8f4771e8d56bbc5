package schedule

import (
	"fmt"
	"time"
)

// Wall-clock times are 24-hour "HH:MM" strings at minute granularity;
// calendar dates are ISO "YYYY-MM-DD" strings.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// HardCutoffMinutes is the latest minute-of-day at which any activity
// may end (17:30), regardless of activity type.
const HardCutoffMinutes = 17*60 + 30

// HardCutoff is the cutoff rendered in wire format.
const HardCutoff = "17:30"

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate converts a "YYYY-MM-DD" string to a time.Time (local, midnight).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a time.Time as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DurationHours returns the fractional-hour span between two clock
// strings. Both must parse and start must precede end for the result
// to be meaningful; callers validate that separately.
func DurationHours(start, end string) float64 {
	s, err := ParseClock(start)
	if err != nil {
		return 0
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0
	}
	return float64(e-s) / 60.0
}

package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Date returns the calendar date of t in loc, as midnight UTC.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return parsed, nil
}

// ParseClock accepts HH:MM or HH:MM:SS and returns the zero-padded HH:MM form.
func ParseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", value)
}

// DaysBetween counts calendar days from from to to, inclusive.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// WeekRange returns Monday..Sunday of the week containing day.
func WeekRange(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

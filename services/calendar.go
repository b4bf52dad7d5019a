package services

import (
	"fmt"
	"time"
)

// Clock returns the current instant in the zone calendar days are counted in.
type Clock func() time.Time

// SystemClock returns a Clock pinned to loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

const dateLayout = "2006-01-02"

// DateKey is the calendar date of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// WeekKey is the ISO week of t, e.g. 2026-W07.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey is the calendar month of t, e.g. 2026-02.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// daysBetween counts calendar days between two date keys. DST transitions
// do not affect the count.
func daysBetween(from, to string) (int, bool) {
	f, err := time.Parse(dateLayout, from)
	if err != nil {
		return 0, false
	}
	t, err := time.Parse(dateLayout, to)
	if err != nil {
		return 0, false
	}
	return int(t.Sub(f).Hours() / 24), true
}

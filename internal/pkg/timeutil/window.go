package timeutil

import (
	"math"
	"time"
)

// DateLayout is the calendar-date wire format used across the API.
const DateLayout = "2006-01-02"

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayWindow returns the half-open interval [start, end) covering the calendar
// day that contains now, in now's location.
func DayWindow(now time.Time) (start, end time.Time) {
	start = StartOfDay(now)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// MonthWindow returns [first day of month, first day of next month).
func MonthWindow(now time.Time) (start, end time.Time) {
	y, m, _ := now.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// YearWindow returns [Jan 1, Jan 1 of next year).
func YearWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(1, 0, 0)
	return start, end
}

// InWindow reports whether t lies in [start, end).
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// RoundMinutes converts d to whole minutes, rounding half away from zero.
func RoundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

// InclusiveDays counts calendar days in [start, end], both ends included.
// Returns 0 when end is before start.
func InclusiveDays(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	days := 1
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

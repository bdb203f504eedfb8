package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// StartOfDay returns the first instant of the calendar day of date. When
// a DST jump skips midnight this is the first wall-clock time that exists
// on that day (01:00 in America/Sao_Paulo on 2015-10-18).
func StartOfDay(date time.Time) time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	// A skipped midnight normalizes into the previous day
	for t.Day() != date.Day() {
		t = t.Add(15 * time.Minute)
	}
	return t
}

// EndOfDay returns the last instant of the calendar day of date
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(noon(date, 1)).Add(-time.Nanosecond)
}

// noon returns 12:00 of the day n calendar days after date. Noon exists
// on every day in every zone, so it is a safe anchor for day stepping.
func noon(date time.Time, n int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day()+n, 12, 0, 0, 0, date.Location())
}

// AddDays moves the date by n calendar days keeping the wall clock
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// StartOfWeek returns the first day of the week containing date,
// where weekStart names the day a week begins on.
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	diff := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(noon(date, -diff))
}

// EndOfWeek returns the end of the last day of the week containing date
func EndOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	return EndOfDay(noon(StartOfWeek(date, weekStart), 6))
}

// StartOfMonth returns the first instant of the month
func StartOfMonth(date time.Time) time.Time {
	return StartOfDay(time.Date(date.Year(), date.Month(), 1, 12, 0, 0, 0, date.Location()))
}

// EndOfMonth returns the end of the last day of the month
func EndOfMonth(date time.Time) time.Time {
	return EndOfDay(time.Date(date.Year(), date.Month()+1, 0, 12, 0, 0, 0, date.Location()))
}

// AddMonths returns the start of the month n months after the month of date
func AddMonths(date time.Time, n int) time.Time {
	return StartOfMonth(time.Date(date.Year(), date.Month()+time.Month(n), 1, 12, 0, 0, 0, date.Location()))
}

// DateIn returns the start of the same calendar day as t, in loc. The
// zero time stays zero.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return StartOfDay(time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc))
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of calendar days from a to b.
// Time of day and DST shifts are ignored.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// EachDay returns the start of every day in [start, end], ascending.
// Returns nil when end is before start.
func EachDay(start, end time.Time) []time.Time {
	n := DaysBetween(start, end)
	if n < 0 {
		return nil
	}
	days := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, StartOfDay(noon(start, i)))
	}
	return days
}

// WeekNumber returns the local week-numbering year and week of date.
// Week 1 is the week starting on weekStart that contains January
// firstWeekContainsDate. With Monday and 4 this is the ISO week.
func WeekNumber(date time.Time, weekStart time.Weekday, firstWeekContainsDate int) (year int, week int) {
	if firstWeekContainsDate < 1 || firstWeekContainsDate > 7 {
		firstWeekContainsDate = 1
	}
	year = date.Year()
	switch {
	case !date.Before(startOfWeekYear(year+1, date.Location(), weekStart, firstWeekContainsDate)):
		year++
	case date.Before(startOfWeekYear(year, date.Location(), weekStart, firstWeekContainsDate)):
		year--
	}
	first := startOfWeekYear(year, date.Location(), weekStart, firstWeekContainsDate)
	week = DaysBetween(first, StartOfWeek(date, weekStart))/7 + 1
	return year, week
}

func startOfWeekYear(year int, loc *time.Location, weekStart time.Weekday, firstWeekContainsDate int) time.Time {
	return StartOfWeek(time.Date(year, time.January, firstWeekContainsDate, 12, 0, 0, 0, loc), weekStart)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsWithinInterval reports whether date lies in [start, end] inclusive
func IsWithinInterval(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// ParseWeekday parses an English weekday name or its 3-letter abbreviation
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", s)
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateIn(dateStr, time.Local)
}

// ParseDateIn parses date string in various formats. Zone-less values
// are read as wall clock in loc; values with an offset are converted to
// loc. Date-only values give the start of that day in loc.
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	formats := []struct {
		layout   string
		dateOnly bool
		zoned    bool
	}{
		{"2006-01-02", true, false},
		{"02.01.2006", true, false},
		{"2006/1/2", true, false},
		{"2006-01-02T15:04:05", false, false},
		{"2006-01-02T15:04:05Z07:00", false, true},
		{"2006-01-02T15:04:05-0700", false, true},
	}

	for _, f := range formats {
		t, err := time.Parse(f.layout, dateStr)
		if err != nil {
			continue
		}
		switch {
		case f.zoned:
			return t.In(loc), nil
		case f.dateOnly:
			return DateIn(t, loc), nil
		default:
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}

// ParseMonth parses "YYYY-MM" into the first day of that month in loc
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM: %w", s, err)
	}
	return DateIn(t, loc), nil
}

// Package format renders dates with date-fns style pattern tokens
// ("MMM yyyy", "EEEEEE", "d") so picker configs written for the web
// widget keep working.
//
// Supported tokens: y, yy, yyyy (year); M, MM, MMM, MMMM, MMMMM (month);
// d, dd (day of month); E..EEE, EEEE, EEEEE, EEEEEE (weekday);
// i (ISO day of week, 1 = Monday); w, ww (week number). Text inside single
// quotes is copied literally; two single quotes give one. Any other letter run is
// copied as is.
package format

import (
	"strconv"
	"strings"
	"time"
)

// Names overrides the English month and weekday names.
// MonthNames is January-first, DayNames is Sunday-first; nil keeps the default.
type Names struct {
	MonthNames []string
	DayNames   []string
}

// Options carries the name overrides and the week numbering used by w.
// A nil WeekNumber falls back to the ISO week.
type Options struct {
	Names
	WeekNumber func(t time.Time) int
}

// Format renders t with the given pattern.
func Format(t time.Time, pattern string, opts Options) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '\'' {
			i = copyQuoted(&b, runes, i)
			continue
		}
		j := i
		for j < len(runes) && runes[j] == r {
			j++
		}
		b.WriteString(token(t, r, j-i, opts))
		i = j
	}
	return b.String()
}

// copyQuoted writes the quoted literal starting at runes[i] and returns
// the index after the closing quote.
func copyQuoted(b *strings.Builder, runes []rune, i int) int {
	if i+1 < len(runes) && runes[i+1] == '\'' {
		b.WriteRune('\'')
		return i + 2
	}
	i++
	for i < len(runes) {
		if runes[i] == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			return i + 1
		}
		b.WriteRune(runes[i])
		i++
	}
	return i
}

func token(t time.Time, r rune, n int, opts Options) string {
	switch r {
	case 'y':
		if n == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), n)
	case 'M':
		switch n {
		case 1, 2:
			return pad(int(t.Month()), n)
		case 3:
			return Truncate(monthName(t.Month(), opts.Names), 3)
		case 4:
			return monthName(t.Month(), opts.Names)
		default:
			return Truncate(monthName(t.Month(), opts.Names), 1)
		}
	case 'd':
		return pad(t.Day(), n)
	case 'E':
		switch n {
		case 1, 2, 3:
			return Truncate(dayName(t.Weekday(), opts.Names), 3)
		case 4:
			return dayName(t.Weekday(), opts.Names)
		case 5:
			return Truncate(dayName(t.Weekday(), opts.Names), 1)
		default:
			return Truncate(dayName(t.Weekday(), opts.Names), 2)
		}
	case 'i':
		return pad(isoWeekday(t.Weekday()), n)
	case 'w':
		if opts.WeekNumber == nil {
			_, w := t.ISOWeek()
			return pad(w, n)
		}
		return pad(opts.WeekNumber(t), n)
	}
	return strings.Repeat(string(r), n)
}

func monthName(m time.Month, names Names) string {
	if len(names.MonthNames) == 12 {
		return names.MonthNames[m-1]
	}
	return m.String()
}

func dayName(d time.Weekday, names Names) string {
	if len(names.DayNames) == 7 {
		return names.DayNames[d]
	}
	return d.String()
}

// isoWeekday maps Sunday..Saturday to 7, 1..6.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

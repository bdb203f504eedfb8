package grid

import (
	"time"

	"github.com/username/month-grid/internal/format"
	"github.com/username/month-grid/pkg/dateutil"
)

const (
	DefaultMonthDisplayFormat   = "MMM yyyy"
	DefaultWeekdayDisplayFormat = "E"
	DefaultDayDisplayFormat     = "d"
)

// referenceSunday anchors weekday label formatting; any Sunday works.
var referenceSunday = time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC)

// HeaderOptions configures the weekday header row.
type HeaderOptions struct {
	WeekStart time.Weekday
	// DayNames are seven names in ISO order (Monday first). Each label is
	// cut to three characters. Takes precedence over Format.
	DayNames []string
	// Format is a date-fns pattern, DefaultWeekdayDisplayFormat if empty.
	Format          string
	ShowWeekNumbers bool
}

// Weekdays returns the header labels starting at the configured week
// start, with a leading blank slot for the week number gutter when shown.
func Weekdays(opts HeaderOptions) []string {
	pattern := opts.Format
	if pattern == "" {
		pattern = DefaultWeekdayDisplayFormat
	}
	labels := make([]string, 0, 8)
	if opts.ShowWeekNumbers {
		labels = append(labels, "")
	}
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(opts.WeekStart) + i) % 7)
		if len(opts.DayNames) == 7 {
			labels = append(labels, format.Truncate(opts.DayNames[isoIndex(wd)], 3))
			continue
		}
		labels = append(labels, format.Format(dateutil.AddDays(referenceSunday, int(wd)), pattern, format.Options{}))
	}
	return labels
}

// isoIndex maps a weekday to its position in a Monday-first list.
func isoIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// MonthName returns the month header. A twelve entry monthNames list
// (January first) wins over pattern; an empty pattern means
// DefaultMonthDisplayFormat.
func MonthName(month time.Time, monthNames []string, pattern string) string {
	if len(monthNames) == 12 {
		return monthNames[month.Month()-1]
	}
	if pattern == "" {
		pattern = DefaultMonthDisplayFormat
	}
	return format.Format(month, pattern, format.Options{})
}

// DayLabel returns the text of a day cell.
func DayLabel(day time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultDayDisplayFormat
	}
	return format.Format(day, pattern, format.Options{})
}

package grid

import (
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// FixedWeeks is the row count of a fixed-height grid.
const FixedWeeks = 6

// MonthDisplayWindow is the span of days shown for a month, padded to
// whole weeks. Start and End may fall in neighbouring months.
type MonthDisplayWindow struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	StartDateOfMonth time.Time `json:"start_date_of_month"`
	EndDateOfMonth   time.Time `json:"end_date_of_month"`
}

// DisplayWindow computes the window for the month containing month.
// With fixedHeight the window always spans FixedWeeks weeks.
func DisplayWindow(month time.Time, weekStart time.Weekday, fixedHeight bool) MonthDisplayWindow {
	startOfMonth := dateutil.StartOfMonth(month)
	endOfMonth := dateutil.EndOfMonth(month)
	w := MonthDisplayWindow{
		Start:            dateutil.StartOfWeek(startOfMonth, weekStart),
		End:              dateutil.EndOfWeek(endOfMonth, weekStart),
		StartDateOfMonth: startOfMonth,
		EndDateOfMonth:   endOfMonth,
	}
	if fixedHeight {
		for w.Weeks() < FixedWeeks {
			w.End = dateutil.EndOfDay(dateutil.AddDays(w.End, 7))
		}
	}
	return w
}

// Weeks returns the number of rows in the window.
func (w MonthDisplayWindow) Weeks() int {
	return (dateutil.DaysBetween(w.Start, w.End) + 1) / 7
}

// Days enumerates every day of the window in ascending order.
func (w MonthDisplayWindow) Days() []time.Time {
	return dateutil.EachDay(w.Start, w.End)
}

// Contains reports whether day belongs to the month itself.
func (w MonthDisplayWindow) Contains(day time.Time) bool {
	return dateutil.IsWithinInterval(day, w.StartDateOfMonth, w.EndDateOfMonth)
}

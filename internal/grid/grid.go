// Package grid computes the day grid of a single month for a date range
// picker: which days are shown, how each one is classified, and how the
// selected ranges, the live drag and the hover preview overlay it.
//
// Compute is a pure function of its Options. Nothing is rendered here;
// callers paint the returned descriptors however they like.
package grid

import (
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// DisplayMode selects between single date and range pickers. The zero
// value behaves as DisplayModeDateRange.
type DisplayMode string

const (
	DisplayModeDate      DisplayMode = "date"
	DisplayModeDateRange DisplayMode = "dateRange"
)

// Options is the full input of a month computation.
type Options struct {
	// Month is any moment inside the month to display. Its location is
	// the location of every produced day. Date bounds below (MinDate,
	// MaxDate, DisabledDates, Date, range, drag and preview bounds) are
	// read by their calendar day and re-anchored into that location.
	Month     time.Time
	WeekStart time.Weekday
	// FirstWeekContainsDate picks week numbering, 1 (default) or 4 for ISO.
	FirstWeekContainsDate int

	MinDate       time.Time
	MaxDate       time.Time
	DisabledDates []time.Time
	DisabledDay   func(day time.Time) bool
	// DisabledDayErr is DisabledDay for lookups that can fail. A failed
	// lookup leaves the day enabled and marks the grid Incomplete.
	DisabledDayErr func(day time.Time) (bool, error)

	DisplayMode DisplayMode
	// Date is the selected day in DisplayModeDate.
	Date          time.Time
	Ranges        []Range
	FocusedRange  [2]int
	Drag          DragState
	DragRangeOnly bool
	Preview       *DateRange
	ShowPreview   bool

	FixedHeight     bool
	ShowWeekNumbers bool

	// Now is the evaluation clock for IsToday; zero means time.Now().
	Now time.Time
}

// Day describes one cell of the grid.
type Day struct {
	Date           time.Time `json:"date"`
	IsToday        bool      `json:"is_today"`
	IsWeekend      bool      `json:"is_weekend"`
	IsStartOfWeek  bool      `json:"is_start_of_week"`
	IsEndOfWeek    bool      `json:"is_end_of_week"`
	IsStartOfMonth bool      `json:"is_start_of_month"`
	IsEndOfMonth   bool      `json:"is_end_of_month"`
	IsPassive      bool      `json:"is_passive"`
	IsDisabled     bool      `json:"is_disabled"`
	// WeekNumber is set on the first column of a row when week numbers
	// are shown, zero otherwise.
	WeekNumber int `json:"week_number,omitempty"`

	IsSelected bool        `json:"is_selected,omitempty"`
	InDrag     bool        `json:"in_drag,omitempty"`
	Ranges     []RangeMark `json:"ranges,omitempty"`
	Preview    *Mark       `json:"preview,omitempty"`
}

// Grid is the result of Compute.
type Grid struct {
	Window MonthDisplayWindow `json:"window"`
	// Ranges are the ranges as displayed, with the drag applied.
	Ranges  []Range    `json:"ranges"`
	Preview *DateRange `json:"preview,omitempty"`
	Days    []Day      `json:"days"`
	// Incomplete is set when a DisabledDayErr lookup failed; such grids
	// are not cached.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Weeks splits the days into rows of seven.
func (g *Grid) Weeks() [][]Day {
	weeks := make([][]Day, 0, len(g.Days)/7)
	for i := 0; i+7 <= len(g.Days); i += 7 {
		weeks = append(weeks, g.Days[i:i+7])
	}
	return weeks
}

// Compute builds the grid for opts.Month.
func Compute(opts Options) *Grid {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := opts.Month.Location()
	window := DisplayWindow(opts.Month, opts.WeekStart, opts.FixedHeight)

	rangeMode := opts.DisplayMode != DisplayModeDate
	dragging := rangeMode && opts.Drag.Active
	var drag DragState
	if dragging {
		drag = opts.Drag
		drag.Range = drag.Range.in(loc)
	}
	ranges := OverlayRanges(opts.Ranges, opts.FocusedRange[0], drag, opts.DragRangeOnly)
	for i := range ranges {
		ranges[i].DateRange = ranges[i].DateRange.in(loc)
	}

	var preview *DateRange
	if opts.ShowPreview && !opts.Drag.DisablePreview && opts.Preview != nil {
		p := opts.Preview.in(loc)
		preview = &p
	}

	minDate := dateutil.DateIn(opts.MinDate, loc)
	var maxDate time.Time
	if !opts.MaxDate.IsZero() {
		maxDate = dateutil.EndOfDay(dateutil.DateIn(opts.MaxDate, loc))
	}
	incomplete := false

	days := window.Days()
	out := make([]Day, 0, len(days))
	for i, day := range days {
		d := Day{
			Date:           day,
			IsToday:        dateutil.IsSameDay(day, now),
			IsWeekend:      dateutil.IsWeekend(day),
			IsStartOfWeek:  dateutil.IsSameDay(day, dateutil.StartOfWeek(day, opts.WeekStart)),
			IsEndOfWeek:    dateutil.IsSameDay(day, dateutil.EndOfWeek(day, opts.WeekStart)),
			IsStartOfMonth: dateutil.IsSameDay(day, window.StartDateOfMonth),
			IsEndOfMonth:   dateutil.IsSameDay(day, window.EndDateOfMonth),
			IsPassive:      !window.Contains(day),
		}

		outsideMinMax := (!minDate.IsZero() && day.Before(minDate)) ||
			(!maxDate.IsZero() && day.After(maxDate))
		d.IsDisabled = outsideMinMax ||
			isDisabledSpecifically(day, opts.DisabledDates) ||
			(opts.DisabledDay != nil && opts.DisabledDay(day))
		if !d.IsDisabled && opts.DisabledDayErr != nil {
			disabled, err := opts.DisabledDayErr(day)
			if err != nil {
				incomplete = true
			}
			d.IsDisabled = err == nil && disabled
		}

		if opts.ShowWeekNumbers && i%7 == 0 {
			_, d.WeekNumber = dateutil.WeekNumber(day, opts.WeekStart, opts.FirstWeekContainsDate)
		}

		if rangeMode {
			for idx, r := range ranges {
				if m, ok := markDay(day, r.DateRange); ok {
					d.Ranges = append(d.Ranges, RangeMark{Mark: m, Index: idx, Key: r.Key, Color: r.Color})
				}
			}
			d.InDrag = dragging && !drag.Range.IsEmpty() && drag.Range.Contains(day)
		} else {
			d.IsSelected = !opts.Date.IsZero() && dateutil.IsSameDay(day, opts.Date)
		}

		if preview != nil {
			if m, ok := markDay(day, *preview); ok {
				d.Preview = &m
			}
		}

		out = append(out, d)
	}

	return &Grid{
		Window:     window,
		Ranges:     ranges,
		Preview:    preview,
		Days:       out,
		Incomplete: incomplete,
	}
}

func isDisabledSpecifically(day time.Time, disabled []time.Time) bool {
	for _, dd := range disabled {
		if dateutil.IsSameDay(dd, day) {
			return true
		}
	}
	return false
}

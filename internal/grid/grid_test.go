package grid

import (
	"errors"
	"testing"
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// d is a test helper to construct dates.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var fixedNow = time.Date(2021, time.February, 10, 15, 30, 0, 0, time.UTC)

func TestCompute_ShapeForManyMonths(t *testing.T) {
	for _, ws := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		for _, fixed := range []bool{false, true} {
			month := d(2019, time.January, 1)
			for i := 0; i < 36; i++ {
				g := Compute(Options{Month: month, WeekStart: ws, FixedHeight: fixed, Now: fixedNow})

				if len(g.Days)%7 != 0 {
					t.Fatalf("%s ws=%v: %d days is not whole weeks", month.Format("2006-01"), ws, len(g.Days))
				}
				if fixed && len(g.Days) != 42 {
					t.Fatalf("%s ws=%v fixed: got %d days, want 42", month.Format("2006-01"), ws, len(g.Days))
				}
				for j := 1; j < len(g.Days); j++ {
					if dateutil.DaysBetween(g.Days[j-1].Date, g.Days[j].Date) != 1 {
						t.Fatalf("%s: days %d and %d are not consecutive", month.Format("2006-01"), j-1, j)
					}
				}
				first, last := g.Days[0].Date, g.Days[len(g.Days)-1].Date
				if first.Weekday() != ws {
					t.Errorf("%s: first day %v is not %v", month.Format("2006-01"), first.Weekday(), ws)
				}
				if first.After(dateutil.StartOfMonth(month)) {
					t.Errorf("%s: grid starts after the 1st", month.Format("2006-01"))
				}
				if last.Weekday() != time.Weekday((int(ws)+6)%7) {
					t.Errorf("%s: last day %v is not the week end", month.Format("2006-01"), last.Weekday())
				}
				if last.Before(dateutil.StartOfDay(dateutil.EndOfMonth(month))) {
					t.Errorf("%s: grid ends before the last day of month", month.Format("2006-01"))
				}

				month = month.AddDate(0, 1, 0)
			}
		}
	}
}

func TestCompute_StartOfMonthNotPassive(t *testing.T) {
	month := d(2020, time.January, 1)
	for i := 0; i < 24; i++ {
		g := Compute(Options{Month: month, WeekStart: time.Sunday, Now: fixedNow})

		seenStart := false
		for _, day := range g.Days {
			if dateutil.IsSameDay(day.Date, g.Window.StartDateOfMonth) {
				seenStart = true
				if !day.IsStartOfMonth || day.IsPassive {
					t.Fatalf("%s: first of month flags wrong: %+v", month.Format("2006-01"), day)
				}
				continue
			}
			if !seenStart && !day.IsPassive {
				t.Fatalf("%s: %s precedes the month but is not passive", month.Format("2006-01"), day.Date.Format("2006-01-02"))
			}
		}
		month = month.AddDate(0, 1, 0)
	}
}

func TestCompute_February2021MondayStart(t *testing.T) {
	g := Compute(Options{Month: d(2021, time.February, 14), WeekStart: time.Monday, Now: fixedNow})

	if len(g.Days) != 28 {
		t.Fatalf("got %d days, want 28", len(g.Days))
	}
	if !g.Days[0].IsStartOfMonth || !dateutil.IsSameDay(g.Days[0].Date, d(2021, time.February, 1)) {
		t.Errorf("first entry should be Feb 1 and start of month: %+v", g.Days[0])
	}
	if !g.Days[27].IsEndOfMonth || !dateutil.IsSameDay(g.Days[27].Date, d(2021, time.February, 28)) {
		t.Errorf("last entry should be Feb 28 and end of month: %+v", g.Days[27])
	}
	for _, day := range g.Days {
		if day.IsPassive {
			t.Errorf("%s should not be passive", day.Date.Format("2006-01-02"))
		}
	}
	if g.Window.Weeks() != 4 {
		t.Errorf("Weeks() = %d, want 4", g.Window.Weeks())
	}
}

func TestCompute_February2021SundayStart(t *testing.T) {
	g := Compute(Options{Month: d(2021, time.February, 1), WeekStart: time.Sunday, Now: fixedNow})

	if !dateutil.IsSameDay(g.Days[0].Date, d(2021, time.January, 31)) {
		t.Fatalf("grid starts %s, want 2021-01-31", g.Days[0].Date.Format("2006-01-02"))
	}
	if !g.Days[0].IsPassive {
		t.Error("Jan 31 should be passive")
	}
	if g.Days[1].IsPassive || !g.Days[1].IsStartOfMonth {
		t.Error("Feb 1 should be the non-passive start of month")
	}

	// Feb 28 2021 is a Sunday, so it opens a fifth row ending Mar 6.
	if len(g.Days) != 35 {
		t.Fatalf("got %d days, want 35", len(g.Days))
	}
	feb28 := g.Days[28]
	if !dateutil.IsSameDay(feb28.Date, d(2021, time.February, 28)) || feb28.IsPassive || !feb28.IsEndOfMonth {
		t.Errorf("Feb 28 flags wrong: %+v", feb28)
	}
	if !feb28.IsStartOfWeek {
		t.Error("Feb 28 should start its week")
	}
	for _, day := range g.Days[29:] {
		if !day.IsPassive || day.Date.Month() != time.March {
			t.Errorf("%s should be a passive March day", day.Date.Format("2006-01-02"))
		}
	}
}

func TestCompute_FixedHeightFebruary(t *testing.T) {
	g := Compute(Options{Month: d(2021, time.February, 1), WeekStart: time.Monday, FixedHeight: true, Now: fixedNow})

	if len(g.Days) != 42 {
		t.Fatalf("got %d days, want 42", len(g.Days))
	}
	last := g.Days[41]
	if !dateutil.IsSameDay(last.Date, d(2021, time.March, 14)) || !last.IsPassive {
		t.Errorf("last padded day = %s passive=%v, want passive 2021-03-14", last.Date.Format("2006-01-02"), last.IsPassive)
	}
}

func TestCompute_WeekBoundaries(t *testing.T) {
	g := Compute(Options{Month: d(2021, time.March, 1), WeekStart: time.Monday, Now: fixedNow})

	for i, day := range g.Days {
		wantStart := i%7 == 0
		wantEnd := i%7 == 6
		if day.IsStartOfWeek != wantStart || day.IsEndOfWeek != wantEnd {
			t.Errorf("%s: start=%v end=%v, want %v %v",
				day.Date.Format("2006-01-02 Mon"), day.IsStartOfWeek, day.IsEndOfWeek, wantStart, wantEnd)
		}
		wantWeekend := day.Date.Weekday() == time.Saturday || day.Date.Weekday() == time.Sunday
		if day.IsWeekend != wantWeekend {
			t.Errorf("%s: IsWeekend = %v", day.Date.Format("2006-01-02 Mon"), day.IsWeekend)
		}
	}
}

func TestCompute_Today(t *testing.T) {
	now := time.Date(2021, time.February, 10, 23, 59, 0, 0, time.UTC)
	g := Compute(Options{Month: d(2021, time.February, 1), WeekStart: time.Monday, Now: now})

	count := 0
	for _, day := range g.Days {
		if day.IsToday {
			count++
			if !dateutil.IsSameDay(day.Date, now) {
				t.Errorf("IsToday set on %s", day.Date.Format("2006-01-02"))
			}
		}
	}
	if count != 1 {
		t.Errorf("IsToday set on %d days, want 1", count)
	}

	g = Compute(Options{Month: d(2021, time.June, 1), Now: now})
	for _, day := range g.Days {
		if day.IsToday {
			t.Errorf("June grid should have no today, got %s", day.Date.Format("2006-01-02"))
		}
	}
}

func TestCompute_Disabled(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		disabled []time.Time
	}{
		{
			name: "min date disables earlier days",
			opts: Options{MinDate: time.Date(2021, time.February, 3, 18, 0, 0, 0, time.UTC)},
			disabled: []time.Time{
				d(2021, time.February, 1), d(2021, time.February, 2),
			},
		},
		{
			name: "max date disables later days",
			opts: Options{MaxDate: time.Date(2021, time.February, 26, 6, 0, 0, 0, time.UTC)},
			disabled: []time.Time{
				d(2021, time.February, 27), d(2021, time.February, 28),
			},
		},
		{
			name: "explicit dates match by calendar day",
			opts: Options{DisabledDates: []time.Time{
				time.Date(2021, time.February, 14, 13, 45, 0, 0, time.UTC),
			}},
			disabled: []time.Time{d(2021, time.February, 14)},
		},
		{
			name: "predicate",
			opts: Options{DisabledDay: func(day time.Time) bool {
				return day.Day() == 9 && day.Month() == time.February
			}},
			disabled: []time.Time{d(2021, time.February, 9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Month = d(2021, time.February, 1)
			opts.WeekStart = time.Monday
			opts.Now = fixedNow
			g := Compute(opts)

			for _, day := range g.Days {
				want := false
				for _, dis := range tt.disabled {
					if dateutil.IsSameDay(dis, day.Date) {
						want = true
					}
				}
				if day.IsDisabled != want {
					t.Errorf("%s: IsDisabled = %v, want %v", day.Date.Format("2006-01-02"), day.IsDisabled, want)
				}
			}
		})
	}
}

func TestCompute_MinDateProperty(t *testing.T) {
	minDate := d(2021, time.May, 17)
	month := d(2021, time.April, 1)
	for i := 0; i < 3; i++ {
		g := Compute(Options{Month: month, WeekStart: time.Sunday, MinDate: minDate, Now: fixedNow})
		for _, day := range g.Days {
			if day.Date.Before(minDate) && !day.IsDisabled {
				t.Errorf("%s precedes min date but is enabled", day.Date.Format("2006-01-02"))
			}
			if !day.Date.Before(minDate) && day.IsDisabled {
				t.Errorf("%s is on/after min date but disabled", day.Date.Format("2006-01-02"))
			}
		}
		month = month.AddDate(0, 1, 0)
	}
}

func TestCompute_WeekNumbers(t *testing.T) {
	g := Compute(Options{
		Month:           d(2021, time.January, 1),
		WeekStart:       time.Sunday,
		ShowWeekNumbers: true,
		Now:             fixedNow,
	})

	want := []int{1, 2, 3, 4, 5, 6}
	weeks := g.Weeks()
	if len(weeks) != len(want) {
		t.Fatalf("got %d weeks, want %d", len(weeks), len(want))
	}
	for i, week := range weeks {
		if week[0].WeekNumber != want[i] {
			t.Errorf("week %d number = %d, want %d", i, week[0].WeekNumber, want[i])
		}
		for _, day := range week[1:] {
			if day.WeekNumber != 0 {
				t.Errorf("%s carries week number %d", day.Date.Format("2006-01-02"), day.WeekNumber)
			}
		}
	}

	g = Compute(Options{Month: d(2021, time.January, 1), WeekStart: time.Monday, FirstWeekContainsDate: 4, ShowWeekNumbers: true, Now: fixedNow})
	if g.Days[0].WeekNumber != 53 {
		t.Errorf("ISO first row number = %d, want 53", g.Days[0].WeekNumber)
	}

	g = Compute(Options{Month: d(2021, time.January, 1), Now: fixedNow})
	for _, day := range g.Days {
		if day.WeekNumber != 0 {
			t.Fatalf("week numbers not requested but %s has %d", day.Date.Format("2006-01-02"), day.WeekNumber)
		}
	}
}

func TestCompute_RangeMarks(t *testing.T) {
	g := Compute(Options{
		Month:     d(2021, time.February, 1),
		WeekStart: time.Monday,
		Ranges: []Range{
			{DateRange: DateRange{StartDate: d(2021, time.February, 8), EndDate: d(2021, time.February, 10)}, Key: "selection", Color: "#3d91ff"},
		},
		Now: fixedNow,
	})

	marks := map[int]Mark{}
	for _, day := range g.Days {
		if len(day.Ranges) > 0 {
			if day.Ranges[0].Key != "selection" || day.Ranges[0].Color != "#3d91ff" || day.Ranges[0].Index != 0 {
				t.Errorf("mark attributes not carried: %+v", day.Ranges[0])
			}
			marks[day.Date.Day()] = day.Ranges[0].Mark
		}
	}
	want := map[int]Mark{
		8:  {IsStartEdge: true},
		9:  {IsInRange: true},
		10: {IsEndEdge: true},
	}
	if len(marks) != len(want) {
		t.Fatalf("marked days = %v, want %v", marks, want)
	}
	for day, m := range want {
		if marks[day] != m {
			t.Errorf("Feb %d mark = %+v, want %+v", day, marks[day], m)
		}
	}
}

func TestCompute_SingleDayRangeIsBothEdges(t *testing.T) {
	g := Compute(Options{
		Month:  d(2021, time.February, 1),
		Ranges: []Range{{DateRange: DateRange{StartDate: d(2021, time.February, 5), EndDate: d(2021, time.February, 5)}}},
		Now:    fixedNow,
	})
	for _, day := range g.Days {
		if dateutil.IsSameDay(day.Date, d(2021, time.February, 5)) {
			if len(day.Ranges) != 1 || !day.Ranges[0].IsStartEdge || !day.Ranges[0].IsEndEdge || day.Ranges[0].IsInRange {
				t.Errorf("single day range mark = %+v", day.Ranges)
			}
		} else if len(day.Ranges) != 0 {
			t.Errorf("%s unexpectedly marked", day.Date.Format("2006-01-02"))
		}
	}
}

func TestCompute_ReversedRangeIsSwapped(t *testing.T) {
	g := Compute(Options{
		Month:  d(2021, time.February, 1),
		Ranges: []Range{{DateRange: DateRange{StartDate: d(2021, time.February, 12), EndDate: d(2021, time.February, 10)}}},
		Now:    fixedNow,
	})
	for _, day := range g.Days {
		switch day.Date.Day() {
		case 10:
			if day.Date.Month() == time.February && (len(day.Ranges) != 1 || !day.Ranges[0].IsStartEdge) {
				t.Errorf("Feb 10 should be the start edge: %+v", day.Ranges)
			}
		case 12:
			if day.Date.Month() == time.February && (len(day.Ranges) != 1 || !day.Ranges[0].IsEndEdge) {
				t.Errorf("Feb 12 should be the end edge: %+v", day.Ranges)
			}
		}
	}
}

func TestCompute_OpenAndEmptyRanges(t *testing.T) {
	g := Compute(Options{
		Month: d(2021, time.February, 1),
		Ranges: []Range{
			{},
			{DateRange: DateRange{StartDate: d(2021, time.February, 20)}},
		},
		Now: fixedNow,
	})
	for _, day := range g.Days {
		for _, m := range day.Ranges {
			if m.Index == 0 {
				t.Fatalf("empty range marked %s", day.Date.Format("2006-01-02"))
			}
		}
		inOpen := !day.Date.Before(d(2021, time.February, 20))
		if inOpen != (len(day.Ranges) == 1) {
			t.Errorf("%s: open-ended marks = %+v", day.Date.Format("2006-01-02"), day.Ranges)
		}
	}
}

func TestCompute_DragReplacesFocusedRange(t *testing.T) {
	ranges := []Range{
		{DateRange: DateRange{StartDate: d(2021, time.February, 1), EndDate: d(2021, time.February, 3)}, Key: "first", Color: "red"},
		{DateRange: DateRange{StartDate: d(2021, time.February, 15), EndDate: d(2021, time.February, 17)}, Key: "second", Color: "blue"},
	}
	original := append([]Range(nil), ranges...)

	g := Compute(Options{
		Month:        d(2021, time.February, 1),
		WeekStart:    time.Monday,
		Ranges:       ranges,
		FocusedRange: [2]int{1, 0},
		Drag: DragState{
			Active: true,
			Range:  DateRange{StartDate: d(2021, time.February, 20), EndDate: d(2021, time.February, 22)},
		},
		Now: fixedNow,
	})

	if len(g.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(g.Ranges))
	}
	if g.Ranges[0] != original[0] {
		t.Errorf("unfocused range changed: %+v", g.Ranges[0])
	}
	if !g.Ranges[1].StartDate.Equal(d(2021, time.February, 20)) || !g.Ranges[1].EndDate.Equal(d(2021, time.February, 22)) {
		t.Errorf("focused range bounds = %+v", g.Ranges[1].DateRange)
	}
	if g.Ranges[1].Key != "second" || g.Ranges[1].Color != "blue" {
		t.Errorf("focused range lost its attributes: %+v", g.Ranges[1])
	}
	for i := range ranges {
		if ranges[i] != original[i] {
			t.Errorf("caller range %d was modified: %+v", i, ranges[i])
		}
	}

	for _, day := range g.Days {
		wantDrag := !day.Date.Before(d(2021, time.February, 20)) && !day.Date.After(d(2021, time.February, 22))
		if day.InDrag != wantDrag {
			t.Errorf("%s InDrag = %v, want %v", day.Date.Format("2006-01-02"), day.InDrag, wantDrag)
		}
	}
}

func TestCompute_DragRangeOnlyAppends(t *testing.T) {
	ranges := make([]Range, 1, 4) // spare capacity must not be written
	ranges[0] = Range{DateRange: DateRange{StartDate: d(2021, time.February, 1), EndDate: d(2021, time.February, 3)}}

	drag := DragState{Active: true, Range: DateRange{StartDate: d(2021, time.February, 8), EndDate: d(2021, time.February, 9)}}
	g := Compute(Options{
		Month:         d(2021, time.February, 1),
		Ranges:        ranges,
		Drag:          drag,
		DragRangeOnly: true,
		Now:           fixedNow,
	})

	if len(g.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(g.Ranges))
	}
	if g.Ranges[1].DateRange != drag.Range {
		t.Errorf("appended range = %+v, want %+v", g.Ranges[1].DateRange, drag.Range)
	}
	if spare := ranges[:2][1]; !spare.StartDate.IsZero() {
		t.Errorf("caller backing array was written: %+v", spare)
	}
}

func TestCompute_DragIgnoredInDateMode(t *testing.T) {
	g := Compute(Options{
		Month:       d(2021, time.February, 1),
		DisplayMode: DisplayModeDate,
		Date:        d(2021, time.February, 11),
		Ranges:      []Range{{DateRange: DateRange{StartDate: d(2021, time.February, 1), EndDate: d(2021, time.February, 3)}}},
		Drag:        DragState{Active: true, Range: DateRange{StartDate: d(2021, time.February, 8), EndDate: d(2021, time.February, 9)}},
		Now:         fixedNow,
	})

	if !g.Ranges[0].StartDate.Equal(d(2021, time.February, 1)) {
		t.Errorf("drag applied in date mode: %+v", g.Ranges[0])
	}
	selected := 0
	for _, day := range g.Days {
		if day.InDrag || len(day.Ranges) > 0 {
			t.Errorf("%s has range state in date mode", day.Date.Format("2006-01-02"))
		}
		if day.IsSelected {
			selected++
			if day.Date.Day() != 11 {
				t.Errorf("selected %s, want Feb 11", day.Date.Format("2006-01-02"))
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d selected days, want 1", selected)
	}
}

func TestCompute_Preview(t *testing.T) {
	preview := &DateRange{StartDate: d(2021, time.February, 3), EndDate: d(2021, time.February, 5)}

	tests := []struct {
		name        string
		showPreview bool
		drag        DragState
		wantPreview bool
	}{
		{"shown", true, DragState{}, true},
		{"not requested", false, DragState{}, false},
		{"suppressed by drag", true, DragState{Active: true, DisablePreview: true}, false},
		{"suppressed even without active drag", true, DragState{DisablePreview: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compute(Options{
				Month:       d(2021, time.February, 1),
				Preview:     preview,
				ShowPreview: tt.showPreview,
				Drag:        tt.drag,
				Now:         fixedNow,
			})
			if (g.Preview != nil) != tt.wantPreview {
				t.Fatalf("Preview = %v, want present=%v", g.Preview, tt.wantPreview)
			}
			marked := 0
			for _, day := range g.Days {
				if day.Preview != nil {
					marked++
				}
			}
			if tt.wantPreview && marked != 3 {
				t.Errorf("%d preview days, want 3", marked)
			}
			if !tt.wantPreview && marked != 0 {
				t.Errorf("%d preview days, want 0", marked)
			}
		})
	}
}

func TestCompute_DefaultNow(t *testing.T) {
	today := dateutil.StartOfDay(time.Now())
	g := Compute(Options{Month: today})
	found := false
	for _, day := range g.Days {
		if day.IsToday {
			found = true
		}
	}
	if !found {
		t.Error("zero Now should evaluate against the wall clock")
	}
}

func TestComputeMonths(t *testing.T) {
	grids := ComputeMonths(Options{Month: d(2021, time.November, 20), WeekStart: time.Monday, Now: fixedNow}, 4)

	if len(grids) != 4 {
		t.Fatalf("got %d grids, want 4", len(grids))
	}
	wantMonths := []time.Month{time.November, time.December, time.January, time.February}
	for i, g := range grids {
		if g.Window.StartDateOfMonth.Month() != wantMonths[i] {
			t.Errorf("grid %d month = %v, want %v", i, g.Window.StartDateOfMonth.Month(), wantMonths[i])
		}
	}
	if grids[2].Window.StartDateOfMonth.Year() != 2022 {
		t.Errorf("January grid year = %d, want 2022", grids[2].Window.StartDateOfMonth.Year())
	}

	if got := ComputeMonths(Options{Month: d(2021, time.May, 1), Now: fixedNow}, 0); len(got) != 1 {
		t.Errorf("count 0 returned %d grids, want 1", len(got))
	}
}

func TestCompute_SkippedMidnightDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		g := Compute(Options{Month: time.Date(2015, time.October, 1, 0, 0, 0, 0, loc), WeekStart: weekStart, Now: fixedNow})

		if len(g.Days)%7 != 0 {
			t.Fatalf("%v: %d days, want a multiple of 7", weekStart, len(g.Days))
		}
		for i := 1; i < len(g.Days); i++ {
			prev, cur := g.Days[i-1].Date, g.Days[i].Date
			if dateutil.DaysBetween(prev, cur) != 1 {
				t.Fatalf("%v: %s followed by %s", weekStart, prev, cur)
			}
		}

		found := false
		for _, day := range g.Days {
			if day.Date.Day() == 18 && day.Date.Month() == time.October {
				found = true
				if day.IsPassive || day.Date.Hour() != 1 {
					t.Errorf("%v: Oct 18 = %+v, want in-month day starting 01:00", weekStart, day)
				}
			}
		}
		if !found {
			t.Errorf("%v: Oct 18 missing from the grid", weekStart)
		}
	}
}

func TestCompute_BoundsUseGridLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	g := Compute(Options{
		Month:   time.Date(2021, time.February, 1, 0, 0, 0, 0, tokyo),
		MinDate: d(2021, time.February, 10),
		MaxDate: d(2021, time.February, 20),
		Ranges: []Range{
			{DateRange: DateRange{StartDate: d(2021, time.February, 3), EndDate: d(2021, time.February, 5)}},
		},
		Now: fixedNow,
	})

	for _, day := range g.Days {
		if day.Date.Location() != tokyo {
			t.Fatalf("day %v not in grid location", day.Date)
		}
		if day.IsPassive {
			continue
		}
		n := day.Date.Day()
		if want := n < 10 || n > 20; day.IsDisabled != want {
			t.Errorf("Feb %d IsDisabled = %v, want %v", n, day.IsDisabled, want)
		}
		var mark Mark
		if len(day.Ranges) == 1 {
			mark = day.Ranges[0].Mark
		}
		if mark.IsStartEdge != (n == 3) || mark.IsInRange != (n == 4) || mark.IsEndEdge != (n == 5) {
			t.Errorf("Feb %d mark = %+v", n, mark)
		}
	}
}

func TestCompute_FailedLookupMarksIncomplete(t *testing.T) {
	failing := func(day time.Time) (bool, error) {
		if day.Day() == 3 {
			return false, errors.New("lookup failed")
		}
		return day.Day() == 23, nil
	}

	g := Compute(Options{Month: d(2021, time.February, 1), WeekStart: time.Monday, DisabledDayErr: failing, Now: fixedNow})
	if !g.Incomplete {
		t.Error("Incomplete = false, want true after a failed lookup")
	}
	for _, day := range g.Days {
		if want := day.Date.Day() == 23; day.IsDisabled != want {
			t.Errorf("%s IsDisabled = %v, want %v", day.Date.Format("Jan 2"), day.IsDisabled, want)
		}
	}

	ok := func(day time.Time) (bool, error) { return false, nil }
	if g := Compute(Options{Month: d(2021, time.February, 1), DisabledDayErr: ok, Now: fixedNow}); g.Incomplete {
		t.Error("Incomplete = true without failures")
	}
}

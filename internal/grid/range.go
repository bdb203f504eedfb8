package grid

import (
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// DateRange is a pair of bounds. A zero bound is open.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Range is a selectable range with its presentation attributes.
type Range struct {
	DateRange
	Key      string `json:"key,omitempty"`
	Color    string `json:"color,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// DragState is the live drag gesture as reported by the interaction layer.
type DragState struct {
	Active         bool      `json:"active"`
	Range          DateRange `json:"range"`
	DisablePreview bool      `json:"disable_preview"`
}

// Mark describes where a day sits relative to one range.
type Mark struct {
	IsStartEdge bool `json:"is_start_edge"`
	IsEndEdge   bool `json:"is_end_edge"`
	IsInRange   bool `json:"is_in_range"`
}

// RangeMark is a Mark for the range at Index in Grid.Ranges.
type RangeMark struct {
	Mark
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`
	Color string `json:"color,omitempty"`
}

// IsEmpty reports whether both bounds are unset.
func (r DateRange) IsEmpty() bool {
	return r.StartDate.IsZero() && r.EndDate.IsZero()
}

// Normalized returns r with its bounds swapped when the end precedes the start.
func (r DateRange) Normalized() DateRange {
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return DateRange{StartDate: r.EndDate, EndDate: r.StartDate}
	}
	return r
}

// in re-anchors both bounds to their calendar day in loc.
func (r DateRange) in(loc *time.Location) DateRange {
	return DateRange{StartDate: dateutil.DateIn(r.StartDate, loc), EndDate: dateutil.DateIn(r.EndDate, loc)}
}

// Contains reports whether day falls on or between the bounds, treating
// zero bounds as open.
func (r DateRange) Contains(day time.Time) bool {
	n := r.Normalized()
	if !n.StartDate.IsZero() && day.Before(dateutil.StartOfDay(n.StartDate)) {
		return false
	}
	if !n.EndDate.IsZero() && day.After(dateutil.EndOfDay(n.EndDate)) {
		return false
	}
	return true
}

// markDay places day against r: strictly between the bound days is in
// range, the bound days themselves are edges. An empty range marks nothing.
func markDay(day time.Time, r DateRange) (Mark, bool) {
	if r.IsEmpty() {
		return Mark{}, false
	}
	n := r.Normalized()
	var m Mark
	m.IsInRange = (n.StartDate.IsZero() || day.After(dateutil.EndOfDay(n.StartDate))) &&
		(n.EndDate.IsZero() || day.Before(dateutil.StartOfDay(n.EndDate)))
	m.IsStartEdge = !m.IsInRange && !n.StartDate.IsZero() && dateutil.IsSameDay(day, n.StartDate)
	m.IsEndEdge = !m.IsInRange && !n.EndDate.IsZero() && dateutil.IsSameDay(day, n.EndDate)
	return m, m.IsInRange || m.IsStartEdge || m.IsEndEdge
}

// OverlayRanges returns the ranges to display while a drag is in progress.
// With dragRangeOnly the drag range is appended; otherwise the bounds of
// the range at focused are replaced by the drag bounds. The input slice is
// never modified and the result never aliases it.
func OverlayRanges(ranges []Range, focused int, drag DragState, dragRangeOnly bool) []Range {
	out := make([]Range, len(ranges), len(ranges)+1)
	copy(out, ranges)
	if !drag.Active {
		return out
	}
	if dragRangeOnly {
		return append(out, Range{DateRange: drag.Range})
	}
	if focused >= 0 && focused < len(out) {
		out[focused].StartDate = drag.Range.StartDate
		out[focused].EndDate = drag.Range.EndDate
	}
	return out
}

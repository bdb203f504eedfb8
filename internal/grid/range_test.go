package grid

import (
	"testing"
	"time"
)

func TestOverlayRanges(t *testing.T) {
	base := []Range{
		{DateRange: DateRange{StartDate: d(2021, time.March, 1), EndDate: d(2021, time.March, 2)}, Key: "a"},
		{DateRange: DateRange{StartDate: d(2021, time.March, 10), EndDate: d(2021, time.March, 12)}, Key: "b"},
		{DateRange: DateRange{StartDate: d(2021, time.March, 20)}, Key: "c"},
	}
	drag := DragState{Active: true, Range: DateRange{StartDate: d(2021, time.March, 5), EndDate: d(2021, time.March, 6)}}

	tests := []struct {
		name          string
		focused       int
		drag          DragState
		dragRangeOnly bool
		wantLen       int
		changed       int // index whose bounds equal the drag, -1 for none
	}{
		{"inactive drag copies", 1, DragState{}, false, 3, -1},
		{"replace focused", 1, drag, false, 3, 1},
		{"replace first", 0, drag, false, 3, 0},
		{"append", 1, drag, true, 4, 3},
		{"focused out of range", 7, drag, false, 3, -1},
		{"negative focus", -1, drag, false, 3, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlayRanges(base, tt.focused, tt.drag, tt.dragRangeOnly)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			for i := range got {
				if i == tt.changed {
					if got[i].DateRange != drag.Range {
						t.Errorf("range %d = %+v, want drag bounds", i, got[i].DateRange)
					}
					continue
				}
				if got[i] != base[i] {
					t.Errorf("range %d changed: %+v", i, got[i])
				}
			}
			if len(got) > 0 && &got[0] == &base[0] {
				t.Error("result aliases the input slice")
			}
		})
	}
}

func TestOverlayRanges_KeepsAttributes(t *testing.T) {
	base := []Range{{DateRange: DateRange{StartDate: d(2021, time.March, 1)}, Key: "k", Color: "#fff", Disabled: true}}
	drag := DragState{Active: true, Range: DateRange{StartDate: d(2021, time.March, 9), EndDate: d(2021, time.March, 7)}}

	got := OverlayRanges(base, 0, drag, false)
	if got[0].Key != "k" || got[0].Color != "#fff" || !got[0].Disabled {
		t.Errorf("attributes lost: %+v", got[0])
	}
	// Reversed drag bounds are stored as given.
	if !got[0].StartDate.Equal(d(2021, time.March, 9)) {
		t.Errorf("StartDate = %v", got[0].StartDate)
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		StartDate: time.Date(2021, time.March, 5, 18, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2021, time.March, 7, 6, 0, 0, 0, time.UTC),
	}
	tests := []struct {
		day  time.Time
		want bool
	}{
		{d(2021, time.March, 4), false},
		{d(2021, time.March, 5), true},
		{d(2021, time.March, 7), true},
		{time.Date(2021, time.March, 7, 23, 0, 0, 0, time.UTC), true},
		{d(2021, time.March, 8), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.day); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.day, got, tt.want)
		}
		reversed := DateRange{StartDate: r.EndDate, EndDate: r.StartDate}
		if got := reversed.Contains(tt.day); got != tt.want {
			t.Errorf("reversed Contains(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}

	if !(DateRange{}).Contains(d(1999, time.January, 1)) {
		t.Error("fully open range should contain every day")
	}
	if !(DateRange{}).IsEmpty() {
		t.Error("zero range should be empty")
	}
}

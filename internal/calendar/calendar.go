package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

// String returns the file format name of the day type
func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	}
	return fmt.Sprintf("DayType(%d)", int(t))
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date time.Time
	Type DayType
	Note string
}

// IsDayOff reports whether nobody works on this day
func (d DayInfo) IsDayOff() bool {
	return d.Type == DayTypeWeekend || d.Type == DayTypeHoliday
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	Days     []DayInfo
}

// Calendar interface for looking up days off
type Calendar interface {
	// GetMonthInfo returns calendar info for the entire month
	GetMonthInfo(year int, month time.Month) (*MonthInfo, error)

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date time.Time) (*DayInfo, error)
}

// DisabledDay adapts a calendar to a grid day predicate. Holidays are
// disabled; weekends too when includeWeekends is set. Lookup errors are
// returned so the grid can tell a workday from a failed lookup.
func DisabledDay(cal Calendar, includeWeekends bool) func(time.Time) (bool, error) {
	return func(day time.Time) (bool, error) {
		info, err := cal.GetDayInfo(day)
		if err != nil {
			return false, err
		}
		if info.Type == DayTypeHoliday {
			return true, nil
		}
		return includeWeekends && info.Type == DayTypeWeekend, nil
	}
}

// dayStore holds sparse day entries; days without an entry are workdays
// or weekends by their weekday. Safe for concurrent use.
type dayStore struct {
	mu   sync.RWMutex
	days map[string]DayInfo // key: "YYYY-MM-DD"
}

func newDayStore() *dayStore {
	return &dayStore{days: make(map[string]DayInfo)}
}

func dayKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *dayStore) put(info DayInfo) {
	s.mu.Lock()
	s.days[dayKey(info.Date)] = info
	s.mu.Unlock()
}

func (s *dayStore) reset() {
	s.mu.Lock()
	s.days = make(map[string]DayInfo)
	s.mu.Unlock()
}

func (s *dayStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days)
}

func (s *dayStore) dayInfo(date time.Time) *DayInfo {
	s.mu.RLock()
	info, ok := s.days[dayKey(date)]
	s.mu.RUnlock()
	if ok {
		return &info
	}
	return defaultDayInfo(date)
}

func (s *dayStore) monthInfo(year int, month time.Month) *MonthInfo {
	monthInfo := &MonthInfo{Year: year, Month: month}
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		info := s.dayInfo(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		monthInfo.add(*info)
	}
	return monthInfo
}

func defaultDayInfo(date time.Time) *DayInfo {
	info := &DayInfo{Date: dateutil.StartOfDay(date), Type: DayTypeWorkday}
	if dateutil.IsWeekend(date) {
		info.Type = DayTypeWeekend
	}
	return info
}

// HolidayDays returns the holidays of the month in date order
func (m *MonthInfo) HolidayDays() []DayInfo {
	var out []DayInfo
	for _, day := range m.Days {
		if day.Type == DayTypeHoliday {
			out = append(out, day)
		}
	}
	return out
}

func (m *MonthInfo) add(info DayInfo) {
	m.Days = append(m.Days, info)
	switch info.Type {
	case DayTypeWorkday, DayTypeShortened:
		m.WorkDays++
	case DayTypeWeekend:
		m.Weekends++
	case DayTypeHoliday:
		m.Holidays++
	}
}

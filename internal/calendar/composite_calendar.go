package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Loader is a calendar whose data must be read before use
type Loader interface {
	Load() error
}

// CompositeCalendar implements Calendar with fallback strategy
// Primary: usually a remote calendar (isdayoff)
// Fallback: usually a local file
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GetMonthInfo returns calendar info for the entire month
func (cc *CompositeCalendar) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	monthInfo, err := cc.primary.GetMonthInfo(year, month)
	if err == nil {
		return monthInfo, nil
	}

	cc.logger.Warn("Primary calendar failed, using fallback",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Error(err))

	return cc.fallback.GetMonthInfo(year, month)
}

// GetDayInfo returns detailed info for a specific day
func (cc *CompositeCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	dayInfo, err := cc.primary.GetDayInfo(date)
	if err == nil {
		return dayInfo, nil
	}

	cc.logger.Warn("Primary calendar failed, using fallback",
		zap.String("date", dayKey(date)),
		zap.Error(err))

	return cc.fallback.GetDayInfo(date)
}

// LoadFallback loads the fallback calendar when it needs loading
func (cc *CompositeCalendar) LoadFallback() error {
	if l, ok := cc.fallback.(Loader); ok {
		if err := l.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}

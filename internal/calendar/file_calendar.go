package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file
//
// Format: one day per line, "YYYY-MM-DD type [note]", where type is one of
// workday, weekend, holiday, shortened. Blank lines and lines starting
// with # are skipped. Days not listed follow their weekday.
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	store    *dayStore
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		store:    newDayStore(),
	}
}

// Load loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	if err := fc.LoadFrom(file); err != nil {
		return err
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("days", fc.store.len()))

	return nil
}

// LoadFrom replaces the calendar data with entries read from r
func (fc *FileCalendar) LoadFrom(r io.Reader) error {
	fc.store.reset()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Example: 2025-01-01 holiday New Year's Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		dateStr := parts[0]
		typeStr := parts[1]
		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", dateStr), zap.Error(err))
			continue
		}

		dayType, ok := parseDayType(typeStr)
		if !ok {
			fc.logger.Warn("Unknown day type", zap.String("type", typeStr))
			continue
		}

		fc.store.put(DayInfo{
			Date: date,
			Type: dayType,
			Note: note,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	return nil
}

// GetMonthInfo returns calendar info for the entire month
func (fc *FileCalendar) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	return fc.store.monthInfo(year, month), nil
}

// GetDayInfo returns detailed info for a specific day
func (fc *FileCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return fc.store.dayInfo(date), nil
}

func parseDayType(s string) (DayType, bool) {
	switch s {
	case "workday":
		return DayTypeWorkday, true
	case "weekend":
		return DayTypeWeekend, true
	case "holiday":
		return DayTypeHoliday, true
	case "shortened":
		return DayTypeShortened, true
	}
	return 0, false
}

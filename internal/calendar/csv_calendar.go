package calendar

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/username/month-grid/pkg/dateutil"
)

// Supported CSV encodings
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// CSVCalendar implements Calendar from a "date,name" holiday CSV, such as
// the Cabinet Office syukujitsu.csv which is published in Shift_JIS.
// A first row whose date column does not parse is treated as the header.
type CSVCalendar struct {
	filePath string
	encoding string
	logger   *zap.Logger
	store    *dayStore
}

// NewCSVCalendar creates a new CSVCalendar instance
func NewCSVCalendar(filePath, encoding string, logger *zap.Logger) *CSVCalendar {
	if encoding == "" {
		encoding = EncodingUTF8
	}
	return &CSVCalendar{
		filePath: filePath,
		encoding: strings.ToLower(encoding),
		logger:   logger,
		store:    newDayStore(),
	}
}

// Load loads holidays from the CSV file
func (cc *CSVCalendar) Load() error {
	file, err := os.Open(cc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday CSV: %w", err)
	}
	defer file.Close()

	count, err := cc.LoadFrom(file)
	if err != nil {
		return err
	}

	cc.logger.Info("Holiday CSV loaded",
		zap.String("file", cc.filePath),
		zap.String("encoding", cc.encoding),
		zap.Int("holidays", count))

	return nil
}

// LoadFrom replaces the calendar data with holidays read from r and
// returns how many were loaded
func (cc *CSVCalendar) LoadFrom(r io.Reader) (int, error) {
	switch cc.encoding {
	case EncodingUTF8:
	case EncodingShiftJIS:
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	default:
		return 0, fmt.Errorf("unsupported CSV encoding: %s", cc.encoding)
	}

	cc.store.reset()

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	count := 0
	lineNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < 2 {
			return count, fmt.Errorf("line %d: expected 2 columns, got %d", lineNum, len(record))
		}

		dateStr := strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
		name := strings.TrimSpace(record[1])
		if dateStr == "" || name == "" {
			continue
		}

		date, err := dateutil.ParseDateIn(dateStr, time.UTC)
		if err != nil {
			if lineNum == 1 {
				continue // header
			}
			return count, fmt.Errorf("line %d: invalid date %q: %w", lineNum, dateStr, err)
		}

		cc.store.put(DayInfo{Date: date, Type: DayTypeHoliday, Note: name})
		count++
	}

	return count, nil
}

// GetMonthInfo returns calendar info for the entire month
func (cc *CSVCalendar) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	return cc.store.monthInfo(year, month), nil
}

// GetDayInfo returns detailed info for a specific day
func (cc *CSVCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return cc.store.dayInfo(date), nil
}

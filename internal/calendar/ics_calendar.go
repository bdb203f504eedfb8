package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/username/month-grid/pkg/dateutil"
)

// maxICSSize bounds a downloaded calendar.
const maxICSSize = 5 * 1024 * 1024

// ICSCalendar implements Calendar from the events of an iCalendar feed.
// Every day covered by an event is a holiday named after its summary.
type ICSCalendar struct {
	source     string // file path or http(s) URL
	httpClient *http.Client
	logger     *zap.Logger
	store      *dayStore
}

// NewICSCalendar creates a new ICSCalendar instance
func NewICSCalendar(source string, logger *zap.Logger) *ICSCalendar {
	return &ICSCalendar{
		source:     source,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
		store:      newDayStore(),
	}
}

// Load reads the feed from its file or URL
func (ic *ICSCalendar) Load(ctx context.Context) error {
	var r io.Reader
	if strings.HasPrefix(ic.source, "http://") || strings.HasPrefix(ic.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ic.source, nil)
		if err != nil {
			return fmt.Errorf("failed to build ICS request: %w", err)
		}
		resp, err := ic.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch ICS feed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ICS feed returned status %d", resp.StatusCode)
		}
		r = io.LimitReader(resp.Body, maxICSSize)
	} else {
		file, err := os.Open(ic.source)
		if err != nil {
			return fmt.Errorf("failed to open ICS file: %w", err)
		}
		defer file.Close()
		r = file
	}

	count, err := ic.LoadFrom(r)
	if err != nil {
		return err
	}

	ic.logger.Info("ICS calendar loaded",
		zap.String("source", ic.source),
		zap.Int("days", count))

	return nil
}

// LoadFrom replaces the calendar data with the events read from r and
// returns the number of days marked
func (ic *ICSCalendar) LoadFrom(r io.Reader) (int, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ICS: %w", err)
	}

	ic.store.reset()

	count := 0
	for _, event := range cal.Events() {
		start, end, err := eventDays(event)
		if err != nil {
			ic.logger.Warn("Skipping event without usable dates",
				zap.String("uid", event.Id()),
				zap.Error(err))
			continue
		}

		note := ""
		if p := event.GetProperty(ics.ComponentPropertySummary); p != nil {
			note = p.Value
		}
		for _, day := range dateutil.EachDay(start, end) {
			ic.store.put(DayInfo{Date: day, Type: DayTypeHoliday, Note: note})
			count++
		}
	}

	return count, nil
}

// eventDays returns the first and last day covered by an event. All-day
// events end the day before DTEND, as DTEND is exclusive.
func eventDays(event *ics.VEvent) (time.Time, time.Time, error) {
	if isAllDay(event) {
		start, err := event.GetAllDayStartAt()
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = dateOnly(start)
		end, err := event.GetAllDayEndAt()
		if err != nil {
			return start, start, nil
		}
		last := dateOnly(end).AddDate(0, 0, -1)
		if last.Before(start) {
			last = start
		}
		return start, last, nil
	}

	start, err := event.GetStartAt()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := event.GetEndAt()
	if err != nil || end.Before(start) {
		end = start
	}
	return dateOnly(start), dateOnly(end), nil
}

func isAllDay(event *ics.VEvent) bool {
	p := event.GetProperty(ics.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	for _, v := range p.ICalParameters[string(ics.ParameterValue)] {
		if v == "DATE" {
			return true
		}
	}
	return len(p.Value) == len("20060102")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetMonthInfo returns calendar info for the entire month
func (ic *ICSCalendar) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	return ic.store.monthInfo(year, month), nil
}

// GetDayInfo returns detailed info for a specific day
func (ic *ICSCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return ic.store.dayInfo(date), nil
}

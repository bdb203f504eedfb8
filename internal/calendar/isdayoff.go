package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/month-grid/pkg/dateutil"
)

const (
	DefaultIsDayOffURL = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	defaultFailureTTL  = time.Minute
)

// IsDayOffCalendar implements Calendar with the isdayoff.ru bulk API.
// Months are fetched whole and cached for the TTL. When the API fails
// and a fallback URL is set, the yearly xmlcalendar.ru JSON is used.
// Failed months are remembered for failureTTL so a grid does not hit
// the network once per day during an outage.
type IsDayOffCalendar struct {
	baseURL     string
	fallbackURL string // contains {year}
	httpClient  *http.Client
	logger      *zap.Logger
	cacheTTL    time.Duration
	failureTTL  time.Duration

	mu           sync.RWMutex
	months       map[string]*cachedMonth  // key: "YYYY-MM"
	failures     map[string]cachedFailure // key: "YYYY-MM"
	fallbackData map[int]*xmlCalendarYear // year → calendar data
	now          func() time.Time
}

type cachedMonth struct {
	info      *MonthInfo
	fetchedAt time.Time
}

type cachedFailure struct {
	err error
	at  time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance. An empty
// baseURL selects the public service; an empty fallbackURL disables the
// fallback.
func NewIsDayOffCalendar(baseURL, fallbackURL string, cacheTTL time.Duration, logger *zap.Logger) *IsDayOffCalendar {
	if baseURL == "" {
		baseURL = DefaultIsDayOffURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &IsDayOffCalendar{
		baseURL:      strings.TrimRight(baseURL, "/"),
		fallbackURL:  fallbackURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:       logger,
		cacheTTL:     cacheTTL,
		failureTTL:   defaultFailureTTL,
		months:       make(map[string]*cachedMonth),
		failures:     make(map[string]cachedFailure),
		fallbackData: make(map[int]*xmlCalendarYear),
		now:          time.Now,
	}
}

// GetDayInfo returns detailed info for a specific day
func (c *IsDayOffCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	monthInfo, err := c.GetMonthInfo(date.Year(), date.Month())
	if err != nil {
		return nil, err
	}

	idx := date.Day() - 1
	if idx >= len(monthInfo.Days) {
		return nil, fmt.Errorf("day not found in month data: %s", dayKey(date))
	}
	day := monthInfo.Days[idx]
	return &day, nil
}

// GetMonthInfo returns calendar info for the entire month
func (c *IsDayOffCalendar) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	return c.MonthInfo(context.Background(), year, month)
}

// MonthInfo is GetMonthInfo bounded by ctx
func (c *IsDayOffCalendar) MonthInfo(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	key := fmt.Sprintf("%04d-%02d", year, int(month))

	c.mu.RLock()
	cached, ok := c.months[key]
	failed, hasFailed := c.failures[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(cached.fetchedAt) < c.cacheTTL {
		c.logger.Debug("Using cached month info", zap.String("month", key))
		return cached.info, nil
	}
	if hasFailed && c.now().Sub(failed.at) < c.failureTTL {
		return nil, failed.err
	}

	monthInfo, err := c.fetchMonth(ctx, year, month)
	if err != nil {
		// Cancelled lookups are not remembered
		if ctx.Err() == nil {
			c.mu.Lock()
			c.failures[key] = cachedFailure{err: err, at: c.now()}
			c.mu.Unlock()
		}
		return nil, err
	}

	c.mu.Lock()
	c.months[key] = &cachedMonth{info: monthInfo, fetchedAt: c.now()}
	delete(c.failures, key)
	c.mu.Unlock()

	return monthInfo, nil
}

// fetchMonth tries the API, then the fallback when one is configured
func (c *IsDayOffCalendar) fetchMonth(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	key := fmt.Sprintf("%04d-%02d", year, int(month))

	monthInfo, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.String("month", key),
			zap.Error(err))

		var fallbackErr error
		monthInfo, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}
	}
	return monthInfo, nil
}

// fetchMonthFromAPI fetches entire month from the bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", c.baseURL, year, int(month))

	c.logger.Debug("Fetching month from isdayoff",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	monthInfo, err := parseBulkResponse(year, month, strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month info fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", monthInfo.Holidays))

	return monthInfo, nil
}

func (c *IsDayOffCalendar) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseBulkResponse parses a bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day
func parseBulkResponse(year int, month time.Month, data string) (*MonthInfo, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)
	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, daysInMonth),
	}

	for i, code := range data {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)

		var dayType DayType
		switch code {
		case '0':
			dayType = DayTypeWorkday
		case '1':
			dayType = nonWorkingType(date)
		case '2':
			dayType = DayTypeShortened
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}

		monthInfo.add(DayInfo{Date: date, Type: dayType})
	}

	return monthInfo, nil
}

// nonWorkingType tells a regular weekend from a holiday
func nonWorkingType(date time.Time) DayType {
	if dateutil.IsWeekend(date) {
		return DayTypeWeekend
	}
	return DayTypeHoliday
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) (*MonthInfo, error) {
	c.mu.RLock()
	yearData, exists := c.fallbackData[year]
	c.mu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.mu.Lock()
		c.fallbackData[year] = yearData
		c.mu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return parseXMLCalendarMonth(year, month, yearData.Months[i].Days, c.logger), nil
		}
	}

	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var yearData xmlCalendarYear
	if err := json.NewDecoder(body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day, others = weekends/holidays
func parseXMLCalendarMonth(year int, month time.Month, days string, logger *zap.Logger) *MonthInfo {
	nonWorking := make(map[int]bool) // day → shortened
	for _, part := range strings.Split(days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		shortened := strings.HasSuffix(part, "*")
		dayStr := strings.TrimRight(part, "*+")

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			logger.Warn("Failed to parse day number", zap.String("part", part), zap.Error(err))
			continue
		}
		nonWorking[day] = shortened
	}

	monthInfo := &MonthInfo{Year: year, Month: month}
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		dayType := DayTypeWorkday
		if shortened, ok := nonWorking[day]; ok {
			if shortened {
				dayType = DayTypeShortened
			} else {
				dayType = nonWorkingType(date)
			}
		}
		monthInfo.add(DayInfo{Date: date, Type: dayType})
	}

	return monthInfo
}

// ClearCache clears the cache
func (c *IsDayOffCalendar) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.months = make(map[string]*cachedMonth)
	c.failures = make(map[string]cachedFailure)
	c.fallbackData = make(map[int]*xmlCalendarYear)
	c.logger.Info("Calendar cache cleared")
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/username/month-grid/internal/grid"
	"github.com/username/month-grid/pkg/dateutil"
)

// Calendar source types
const (
	CalendarNone     = "none"
	CalendarFile     = "file"
	CalendarCSV      = "csv"
	CalendarICS      = "ics"
	CalendarIsDayOff = "isdayoff"
)

// Config represents application configuration
type Config struct {
	Picker   PickerConfig   `mapstructure:"picker"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	State    StateConfig    `mapstructure:"state"`
}

// PickerConfig represents the month grid options
type PickerConfig struct {
	Timezone              string        `mapstructure:"timezone"`
	WeekStart             string        `mapstructure:"week_start"` // "monday", "sun", ...
	FirstWeekContainsDate int           `mapstructure:"first_week_contains_date"`
	MinDate               string        `mapstructure:"min_date"`
	MaxDate               string        `mapstructure:"max_date"`
	DisabledDates         []string      `mapstructure:"disabled_dates"`
	DisplayMode           string        `mapstructure:"display_mode"` // "date" or "dateRange"
	Date                  string        `mapstructure:"date"`
	FixedHeight           bool          `mapstructure:"fixed_height"`
	ShowWeekNumbers       bool          `mapstructure:"show_week_numbers"`
	DragRangeOnly         bool          `mapstructure:"drag_range_only"`
	ShowPreview           *bool         `mapstructure:"show_preview"`
	MonthDisplayFormat    string        `mapstructure:"month_display_format"`
	WeekdayDisplayFormat  string        `mapstructure:"weekday_display_format"`
	DayDisplayFormat      string        `mapstructure:"day_display_format"`
	MonthNames            []string      `mapstructure:"month_names"`
	DayNames              []string      `mapstructure:"day_names"` // Monday first
	Months                int           `mapstructure:"months"`
	Ranges                []RangeConfig `mapstructure:"ranges"`
}

// RangeConfig represents a range preset; bounds are optional
type RangeConfig struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
	Key       string `mapstructure:"key"`
	Color     string `mapstructure:"color"`
	Disabled  bool   `mapstructure:"disabled"`
}

// CalendarConfig represents the day-off calendar source
type CalendarConfig struct {
	Type            string `mapstructure:"type"`         // none, file, csv, ics, isdayoff
	Path            string `mapstructure:"path"`         // file, csv, ics (ics also accepts a URL)
	URL             string `mapstructure:"url"`          // isdayoff base URL
	FallbackURL     string `mapstructure:"fallback_url"` // isdayoff xmlcalendar.ru fallback
	FallbackFile    string `mapstructure:"fallback_file"`
	Encoding        string `mapstructure:"encoding"` // csv only
	CacheTTL        string `mapstructure:"cache_ttl"`
	IncludeWeekends bool   `mapstructure:"include_weekends"`
	// RefreshInterval reloads the source while serving; empty disables
	RefreshInterval string `mapstructure:"refresh_interval"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	CacheEntries int    `mapstructure:"cache_entries"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	SelectionFile string `mapstructure:"selection_file"`
}

// Load loads configuration from file. A missing config file is not an
// error when no explicit path was given; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.month-grid")
		v.AddConfigPath("/etc/month-grid")
	}

	// MONTH_GRID_PICKER_WEEK_START overrides picker.week_start
	v.SetEnvPrefix("month_grid")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("picker.week_start", "sunday")
	v.SetDefault("picker.first_week_contains_date", 1)
	v.SetDefault("picker.display_mode", string(grid.DisplayModeDateRange))
	v.SetDefault("picker.months", 1)
	v.SetDefault("calendar.type", CalendarNone)
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache_entries", grid.DefaultCacheEntries)
	v.SetDefault("log.level", "info")
	v.SetDefault("state.selection_file", "selection.json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	p := &c.Picker

	if _, err := p.GetLocation(); err != nil {
		return err
	}
	if _, err := dateutil.ParseWeekday(p.WeekStart); err != nil {
		return fmt.Errorf("picker.week_start: %w", err)
	}
	if p.FirstWeekContainsDate < 1 || p.FirstWeekContainsDate > 7 {
		return fmt.Errorf("picker.first_week_contains_date must be between 1 and 7")
	}
	switch grid.DisplayMode(p.DisplayMode) {
	case grid.DisplayModeDate, grid.DisplayModeDateRange:
	default:
		return fmt.Errorf("picker.display_mode must be 'date' or 'dateRange', got '%s'", p.DisplayMode)
	}
	if p.Months < 1 || p.Months > 24 {
		return fmt.Errorf("picker.months must be between 1 and 24")
	}
	if len(p.MonthNames) != 0 && len(p.MonthNames) != 12 {
		return fmt.Errorf("picker.month_names must list 12 names")
	}
	if len(p.DayNames) != 0 && len(p.DayNames) != 7 {
		return fmt.Errorf("picker.day_names must list 7 names")
	}

	for name, s := range map[string]string{"picker.min_date": p.MinDate, "picker.max_date": p.MaxDate, "picker.date": p.Date} {
		if s == "" {
			continue
		}
		if _, err := dateutil.ParseDate(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, s := range p.DisabledDates {
		if _, err := dateutil.ParseDate(s); err != nil {
			return fmt.Errorf("picker.disabled_dates: %w", err)
		}
	}
	for i, r := range p.Ranges {
		for _, s := range []string{r.StartDate, r.EndDate} {
			if s == "" {
				continue
			}
			if _, err := dateutil.ParseDate(s); err != nil {
				return fmt.Errorf("picker.ranges[%d]: %w", i, err)
			}
		}
	}

	switch c.Calendar.Type {
	case CalendarNone, "":
	case CalendarFile, CalendarCSV, CalendarICS:
		if c.Calendar.Path == "" {
			return fmt.Errorf("calendar.path is required for %s type", c.Calendar.Type)
		}
	case CalendarIsDayOff:
	default:
		return fmt.Errorf("calendar.type must be one of none, file, csv, ics, isdayoff, got '%s'", c.Calendar.Type)
	}
	if c.Calendar.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Calendar.CacheTTL); err != nil {
			return fmt.Errorf("calendar.cache_ttl: %w", err)
		}
	}
	if c.Calendar.RefreshInterval != "" {
		if d, err := time.ParseDuration(c.Calendar.RefreshInterval); err != nil || d < time.Minute {
			return fmt.Errorf("calendar.refresh_interval must be a duration of at least 1m, got '%s'", c.Calendar.RefreshInterval)
		}
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// GetLocation returns the configured time zone, local time if unset
func (p *PickerConfig) GetLocation() (*time.Location, error) {
	if p.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("picker.timezone: %w", err)
	}
	return loc, nil
}

// GetWeekStart returns the first day of the week, Sunday by default
func (p *PickerConfig) GetWeekStart() time.Weekday {
	wd, err := dateutil.ParseWeekday(p.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// GetShowPreview returns whether the hover preview is shown, true by default
func (p *PickerConfig) GetShowPreview() bool {
	return p.ShowPreview == nil || *p.ShowPreview
}

// GetRanges returns the configured range presets in loc
func (p *PickerConfig) GetRanges(loc *time.Location) []grid.Range {
	ranges := make([]grid.Range, 0, len(p.Ranges))
	for _, r := range p.Ranges {
		ranges = append(ranges, grid.Range{
			DateRange: grid.DateRange{
				StartDate: parseOptionalDate(r.StartDate, loc),
				EndDate:   parseOptionalDate(r.EndDate, loc),
			},
			Key:      r.Key,
			Color:    r.Color,
			Disabled: r.Disabled,
		})
	}
	return ranges
}

// GridOptions returns the grid options described by the configuration.
// Month, ranges from the selection store, drag and preview are left to
// the caller.
func (p *PickerConfig) GridOptions(loc *time.Location) grid.Options {
	opts := grid.Options{
		WeekStart:             p.GetWeekStart(),
		FirstWeekContainsDate: p.FirstWeekContainsDate,
		MinDate:               parseOptionalDate(p.MinDate, loc),
		MaxDate:               parseOptionalDate(p.MaxDate, loc),
		DisplayMode:           grid.DisplayMode(p.DisplayMode),
		Date:                  parseOptionalDate(p.Date, loc),
		Ranges:                p.GetRanges(loc),
		DragRangeOnly:         p.DragRangeOnly,
		ShowPreview:           p.GetShowPreview(),
		FixedHeight:           p.FixedHeight,
		ShowWeekNumbers:       p.ShowWeekNumbers,
	}
	for _, s := range p.DisabledDates {
		if d := parseOptionalDate(s, loc); !d.IsZero() {
			opts.DisabledDates = append(opts.DisabledDates, d)
		}
	}
	return opts
}

// HeaderOptions returns the weekday header options
func (p *PickerConfig) HeaderOptions() grid.HeaderOptions {
	return grid.HeaderOptions{
		WeekStart:       p.GetWeekStart(),
		DayNames:        p.DayNames,
		Format:          p.WeekdayDisplayFormat,
		ShowWeekNumbers: p.ShowWeekNumbers,
	}
}

// parseOptionalDate returns the zero time for an empty or invalid string;
// Validate reports invalid ones.
func parseOptionalDate(s string, loc *time.Location) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := dateutil.ParseDateIn(s, loc)
	if err != nil {
		return time.Time{}
	}
	return d
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetRefreshInterval returns the reload period, zero when disabled
func (c *CalendarConfig) GetRefreshInterval() time.Duration {
	return parseDurationOr(c.RefreshInterval, 0)
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDurationOr(c.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDurationOr(c.WriteTimeout, 10*time.Second)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// GetLevel returns the zap level, info when unset or invalid
func (c *LogConfig) GetLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// ExpandEnvVars expands environment variables in paths and URLs
func (c *Config) ExpandEnvVars() {
	c.Calendar.Path = os.ExpandEnv(c.Calendar.Path)
	c.Calendar.URL = os.ExpandEnv(c.Calendar.URL)
	c.Calendar.FallbackFile = os.ExpandEnv(c.Calendar.FallbackFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.State.SelectionFile = os.ExpandEnv(c.State.SelectionFile)
}

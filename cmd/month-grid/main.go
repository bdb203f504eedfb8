package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/month-grid/internal/calendar"
	"github.com/username/month-grid/internal/config"
	"github.com/username/month-grid/internal/grid"
	"github.com/username/month-grid/internal/picker"
	"github.com/username/month-grid/internal/render"
	"github.com/username/month-grid/internal/state"
	"github.com/username/month-grid/pkg/dateutil"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	out        io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "month-grid",
		Short:         "Month grid for date range pickers",
		Long:          "Compute, render and serve month grids with selected ranges, drag and preview overlays and day-off calendars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.GetLevel())
				return nil
			}
			logger, err = initLogger(cfg.Log.GetLevel())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.month-grid, /etc/month-grid)")

	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(weekdaysCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showCmd() *cobra.Command {
	var (
		months       int
		weekNumbers  bool
		fixedHeight  bool
		hidePassive  bool
		colorMode    string
		asJSON       bool
		dragStart    string
		dragEnd      string
		previewStart string
		previewEnd   string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "show [YYYY-MM]",
		Short: "Render one or more months",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := initializeManager(cmd.Context(), nil)
			if err != nil {
				return err
			}

			q := picker.Query{Months: months}
			if len(args) == 1 {
				if q.Month, err = dateutil.ParseMonth(args[0], manager.Location()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("week-numbers") {
				q.ShowWeekNumbers = &weekNumbers
			}
			if cmd.Flags().Changed("fixed-height") {
				q.FixedHeight = &fixedHeight
			}
			if dragStart != "" || dragEnd != "" {
				if q.Drag, err = parseRange(dragStart, dragEnd, manager.Location()); err != nil {
					return err
				}
			}
			if previewStart != "" || previewEnd != "" {
				if q.Preview, err = parseRange(previewStart, previewEnd, manager.Location()); err != nil {
					return err
				}
			}
			if date != "" {
				if q.Date, err = dateutil.ParseDateIn(date, manager.Location()); err != nil {
					return err
				}
			}

			grids := manager.Months(q)

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(grids)
			}

			if err := setColorProfile(colorMode); err != nil {
				return err
			}
			fmt.Fprintln(out, render.Months(grids, renderOptions(hidePassive)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&months, "months", "n", 0, "Number of months (default from config)")
	cmd.Flags().BoolVar(&weekNumbers, "week-numbers", false, "Show week numbers")
	cmd.Flags().BoolVar(&fixedHeight, "fixed-height", false, "Always show six weeks")
	cmd.Flags().BoolVar(&hidePassive, "hide-passive", false, "Blank days outside the month")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "Color output: auto, always or never")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print computed grids as JSON")
	cmd.Flags().StringVar(&dragStart, "drag-start", "", "Show a live drag from this date")
	cmd.Flags().StringVar(&dragEnd, "drag-end", "", "Show a live drag up to this date")
	cmd.Flags().StringVar(&previewStart, "preview-start", "", "Hover preview start date")
	cmd.Flags().StringVar(&previewEnd, "preview-end", "", "Hover preview end date")
	cmd.Flags().StringVar(&date, "date", "", "Selected date in date display mode")

	return cmd
}

func weekdaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekdays",
		Short: "Print the weekday header labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := picker.NewManager(cfg, nil, nil, nil, logger)
			if err != nil {
				return err
			}
			for _, label := range manager.Weekdays() {
				fmt.Fprintln(out, label)
			}
			return nil
		},
	}
}

func holidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [YYYY-MM]",
		Short: "List holidays of a month from the configured calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Picker.GetLocation()
			if err != nil {
				return err
			}
			month := dateutil.StartOfMonth(time.Now().In(loc))
			if len(args) == 1 {
				if month, err = dateutil.ParseMonth(args[0], loc); err != nil {
					return err
				}
			}

			cal, _, err := initializeCalendar(cmd.Context())
			if err != nil {
				return err
			}
			if cal == nil {
				return fmt.Errorf("no calendar configured (calendar.type is %q)", cfg.Calendar.Type)
			}

			info, err := cal.GetMonthInfo(month.Year(), month.Month())
			if err != nil {
				return fmt.Errorf("failed to get month info: %w", err)
			}

			fmt.Fprintf(out, "%s %d: %d working days, %d weekends, %d holidays\n",
				month.Month(), month.Year(), info.WorkDays, info.Weekends, info.Holidays)
			for _, day := range info.HolidayDays() {
				fmt.Fprintf(out, "  %s  %-9s %s\n", day.Date.Format("2006-01-02"), day.Type, day.Note)
			}
			return nil
		},
	}
}

func selectCmd() *cobra.Command {
	var key, color string

	cmd := &cobra.Command{
		Use:   "select INDEX START [END]",
		Short: "Commit a range to the selection file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}

			store, err := loadSelection()
			if err != nil {
				return err
			}
			manager, err := picker.NewManager(cfg, store, nil, nil, logger)
			if err != nil {
				return err
			}

			end := ""
			if len(args) == 3 {
				end = args[2]
			}
			dr, err := parseRange(args[1], end, manager.Location())
			if err != nil {
				return err
			}

			if err := manager.SetRange(index, grid.Range{DateRange: *dr, Key: key, Color: color}); err != nil {
				return err
			}

			for i, r := range manager.Ranges() {
				fmt.Fprintf(out, "%d  %s .. %s  %s\n", i, formatBound(r.StartDate), formatBound(r.EndDate), r.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Range key")
	cmd.Flags().StringVar(&color, "color", "", "Range color")

	return cmd
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop committed ranges and fall back to configured presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadSelection()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Selection cleared")
			return nil
		},
	}
}

// initializeManager wires calendar, selection and cache into a picker
// manager. The returned reload func refreshes the calendar in place.
func initializeManager(ctx context.Context, cache *grid.Cache) (*picker.Manager, func(context.Context) error, error) {
	cal, reload, err := initializeCalendar(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := loadSelection()
	if err != nil {
		return nil, nil, err
	}

	manager, err := picker.NewManager(cfg, store, cal, cache, logger)
	if err != nil {
		return nil, nil, err
	}
	return manager, reload, nil
}

func loadSelection() (*state.SelectionStore, error) {
	store := state.NewSelectionStore(cfg.State.SelectionFile, logger)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	return store, nil
}

// initializeCalendar builds the configured calendar and loads it. A nil
// calendar means no day-off source.
func initializeCalendar(ctx context.Context) (calendar.Calendar, func(context.Context) error, error) {
	c := &cfg.Calendar

	var (
		cal    calendar.Calendar
		reload func(context.Context) error
	)

	switch c.Type {
	case config.CalendarNone, "":
		logger.Debug("No day-off calendar configured")
		return nil, func(context.Context) error { return nil }, nil

	case config.CalendarFile:
		fc := calendar.NewFileCalendar(c.Path, logger)
		cal, reload = fc, func(context.Context) error { return fc.Load() }

	case config.CalendarCSV:
		cc := calendar.NewCSVCalendar(c.Path, c.Encoding, logger)
		cal, reload = cc, func(context.Context) error { return cc.Load() }

	case config.CalendarICS:
		ic := calendar.NewICSCalendar(c.Path, logger)
		cal, reload = ic, ic.Load

	case config.CalendarIsDayOff:
		baseURL := c.URL
		if baseURL == "" {
			baseURL = calendar.DefaultIsDayOffURL
		}
		logger.Info("Using isdayoff.ru calendar API", zap.String("url", baseURL))
		ic := calendar.NewIsDayOffCalendar(baseURL, c.FallbackURL, c.GetCacheTTL(), logger)
		cal = ic
		reload = func(context.Context) error {
			ic.ClearCache()
			return nil
		}

	default:
		return nil, nil, fmt.Errorf("unknown calendar type: %s", c.Type)
	}

	if err := reload(ctx); err != nil {
		if c.FallbackFile == "" {
			return nil, nil, fmt.Errorf("failed to load %s calendar: %w", c.Type, err)
		}
		logger.Warn("Failed to load calendar, relying on fallback file",
			zap.String("type", c.Type),
			zap.Error(err))
	}

	if c.FallbackFile == "" {
		return cal, reload, nil
	}

	fallback := calendar.NewFileCalendar(c.FallbackFile, logger)
	composite := calendar.NewCompositeCalendar(cal, fallback, logger)
	if err := composite.LoadFallback(); err != nil {
		logger.Warn("Failed to load fallback calendar, continuing with primary only",
			zap.String("file", c.FallbackFile),
			zap.Error(err))
	}

	primaryReload := reload
	reload = func(ctx context.Context) error {
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to reload fallback calendar", zap.Error(err))
		}
		return primaryReload(ctx)
	}
	return composite, reload, nil
}

func renderOptions(hidePassive bool) render.Options {
	p := &cfg.Picker
	return render.Options{
		Styles:      render.DefaultStyles(),
		MonthNames:  p.MonthNames,
		MonthFormat: p.MonthDisplayFormat,
		DayFormat:   p.DayDisplayFormat,
		Header:      p.HeaderOptions(),
		HidePassive: hidePassive,
	}
}

func setColorProfile(mode string) error {
	switch mode {
	case "auto":
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("invalid --color %q, want auto, always or never", mode)
	}
	return nil
}

func parseRange(start, end string, loc *time.Location) (*grid.DateRange, error) {
	var dr grid.DateRange
	var err error
	if start != "" {
		if dr.StartDate, err = dateutil.ParseDateIn(start, loc); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if dr.EndDate, err = dateutil.ParseDateIn(end, loc); err != nil {
			return nil, err
		}
	}
	return &dr, nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.Format("2006-01-02")
}

func initLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func initFileLogger(logFile string, level zapcore.Level) *zap.Logger {
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(core)
}

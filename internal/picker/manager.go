// Package picker ties the month grid to its configuration, the day-off
// calendar and the persisted selection. Both the CLI and the HTTP API
// go through a Manager.
package picker

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/month-grid/internal/calendar"
	"github.com/username/month-grid/internal/config"
	"github.com/username/month-grid/internal/grid"
	"github.com/username/month-grid/internal/state"
	"github.com/username/month-grid/pkg/dateutil"
)

// MaxMonths bounds the months computed per query.
const MaxMonths = 24

// RangeStore persists committed ranges
type RangeStore interface {
	Ranges(loc *time.Location) []grid.Range
	SetRange(index int, r grid.Range) error
	Clear() error
}

// Query holds the per-request inputs; everything else comes from the
// configuration.
type Query struct {
	// Month is any day of the first month; zero means the current month.
	Month  time.Time
	Months int

	FocusedRange [2]int
	// Drag, when set, is the live drag range.
	Drag           *grid.DateRange
	DisablePreview bool
	Preview        *grid.DateRange
	// Date overrides the selected day in date mode.
	Date time.Time

	FixedHeight     *bool
	ShowWeekNumbers *bool
}

// Manager computes grids for queries
type Manager struct {
	config       *config.PickerConfig
	loc          *time.Location
	selection    RangeStore
	disabledDay  func(time.Time) (bool, error)
	predicateKey string
	cache        *grid.Cache
	logger       *zap.Logger
	now          func() time.Time
}

// NewManager creates a new picker manager. cal and cache may be nil.
func NewManager(
	cfg *config.Config,
	selection RangeStore,
	cal calendar.Calendar,
	cache *grid.Cache,
	logger *zap.Logger,
) (*Manager, error) {
	loc, err := cfg.Picker.GetLocation()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		config:    &cfg.Picker,
		loc:       loc,
		selection: selection,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
	if cal != nil {
		m.disabledDay = calendar.DisabledDay(cal, cfg.Calendar.IncludeWeekends)
		m.predicateKey = fmt.Sprintf("%s|%s|%s|%t",
			cfg.Calendar.Type, cfg.Calendar.Path, cfg.Calendar.URL, cfg.Calendar.IncludeWeekends)
	}

	return m, nil
}

// Location returns the time zone grids are computed in
func (m *Manager) Location() *time.Location {
	return m.loc
}

// Options builds the grid options for the first month of q
func (m *Manager) Options(q Query) grid.Options {
	now := m.now().In(m.loc)

	opts := m.config.GridOptions(m.loc)
	opts.Month = q.Month
	if opts.Month.IsZero() {
		opts.Month = now
	}
	opts.Month = dateutil.StartOfMonth(opts.Month.In(m.loc))
	opts.Now = now
	opts.DisabledDayErr = m.disabledDay
	opts.Ranges = m.Ranges()
	opts.FocusedRange = q.FocusedRange

	if q.Drag != nil {
		opts.Drag = grid.DragState{
			Active:         true,
			Range:          *q.Drag,
			DisablePreview: q.DisablePreview,
		}
	}
	opts.Preview = q.Preview
	if !q.Date.IsZero() {
		opts.Date = q.Date
	}
	if q.FixedHeight != nil {
		opts.FixedHeight = *q.FixedHeight
	}
	if q.ShowWeekNumbers != nil {
		opts.ShowWeekNumbers = *q.ShowWeekNumbers
	}

	return opts
}

// Months computes the grids of q, in month order
func (m *Manager) Months(q Query) []*grid.Grid {
	count := q.Months
	if count < 1 {
		count = m.config.Months
	}
	if count < 1 {
		count = 1
	}
	if count > MaxMonths {
		count = MaxMonths
	}

	opts := m.Options(q)
	var grids []*grid.Grid
	if m.cache == nil {
		grids = grid.ComputeMonths(opts, count)
	} else {
		grids = make([]*grid.Grid, count)
		first := opts.Month
		for i := range grids {
			opts.Month = dateutil.AddMonths(first, i)
			grids[i] = m.cache.Compute(opts, m.predicateKey)
		}
	}

	for _, g := range grids {
		if g.Incomplete {
			m.logger.Warn("Calendar lookup failed, some days left enabled",
				zap.String("month", g.Window.StartDateOfMonth.Format("2006-01")))
		}
	}
	if m.cache == nil {
		return grids
	}

	hits, misses := m.cache.Stats()
	m.logger.Debug("Grid cache",
		zap.Uint64("hits", hits),
		zap.Uint64("misses", misses),
		zap.Int("entries", m.cache.Len()))

	return grids
}

// Weekdays returns the header labels
func (m *Manager) Weekdays() []string {
	return grid.Weekdays(m.config.HeaderOptions())
}

// Ranges returns the committed ranges, or the configured presets when
// nothing has been committed yet
func (m *Manager) Ranges() []grid.Range {
	if m.selection != nil {
		if ranges := m.selection.Ranges(m.loc); len(ranges) > 0 {
			return ranges
		}
	}
	return m.config.GetRanges(m.loc)
}

// SetRange commits r at index. The first commit copies the configured
// presets into the store so their indexes stay stable.
func (m *Manager) SetRange(index int, r grid.Range) error {
	if m.selection == nil {
		return fmt.Errorf("no selection store configured")
	}

	if len(m.selection.Ranges(m.loc)) == 0 {
		presets := m.config.GetRanges(m.loc)
		if index < 0 || index > len(presets) {
			return fmt.Errorf("failed to commit range %d: %w (have %d)",
				index, state.ErrIndexOutOfRange, len(presets))
		}
		for i, preset := range presets {
			if err := m.selection.SetRange(i, preset); err != nil {
				return fmt.Errorf("failed to seed preset %d: %w", i, err)
			}
		}
	}

	if err := m.selection.SetRange(index, r); err != nil {
		return fmt.Errorf("failed to commit range %d: %w", index, err)
	}
	return nil
}

// Clear drops the committed ranges
func (m *Manager) Clear() error {
	if m.selection == nil {
		return fmt.Errorf("no selection store configured")
	}
	if err := m.selection.Clear(); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

// Invalidate drops cached grids after the calendar data was reloaded
func (m *Manager) Invalidate() {
	if m.cache != nil {
		m.cache.Purge()
		m.logger.Debug("Grid cache purged")
	}
}

// Title returns the header of a computed month
func (m *Manager) Title(g *grid.Grid) string {
	return grid.MonthName(g.Window.StartDateOfMonth, m.config.MonthNames, m.config.MonthDisplayFormat)
}

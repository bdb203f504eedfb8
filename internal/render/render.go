// Package render paints computed month grids for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/username/month-grid/internal/grid"
)

const minCellWidth = 2

// Styles holds one style per day state. Later states in the list
// override earlier ones: Day, Weekend, Passive, InRange, Edge,
// Preview, Drag, Selected, Today, Disabled.
type Styles struct {
	Title      lipgloss.Style
	Weekday    lipgloss.Style
	WeekNumber lipgloss.Style
	Day        lipgloss.Style
	Weekend    lipgloss.Style
	Passive    lipgloss.Style
	InRange    lipgloss.Style
	Edge       lipgloss.Style
	Preview    lipgloss.Style
	Drag       lipgloss.Style
	Selected   lipgloss.Style
	Today      lipgloss.Style
	Disabled   lipgloss.Style
}

// DefaultStyles returns the 256-color palette used by the CLI.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true),
		Weekday:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		WeekNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Day:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Weekend:    lipgloss.NewStyle().Foreground(lipgloss.Color("210")),
		Passive:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		InRange:    lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Edge:       lipgloss.NewStyle().Background(lipgloss.Color("33")).Bold(true),
		Preview:    lipgloss.NewStyle().Underline(true),
		Drag:       lipgloss.NewStyle().Background(lipgloss.Color("63")),
		Selected:   lipgloss.NewStyle().Background(lipgloss.Color("33")).Foreground(lipgloss.Color("0")),
		Today:      lipgloss.NewStyle().Underline(true).Bold(true),
		Disabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Strikethrough(true),
	}
}

// Options configures rendering
type Options struct {
	Styles Styles
	// MonthNames and MonthFormat feed grid.MonthName.
	MonthNames  []string
	MonthFormat string
	DayFormat   string
	Header      grid.HeaderOptions
	// HidePassive blanks days outside the month.
	HidePassive bool
}

// Month renders a single grid: title, weekday row and one line per week.
func Month(g *grid.Grid, opts Options) string {
	header := opts.Header
	header.ShowWeekNumbers = hasWeekNumbers(g) || header.ShowWeekNumbers

	labels := grid.Weekdays(header)
	width := minCellWidth
	for _, label := range labels {
		width = max(width, lipgloss.Width(label))
	}
	for _, day := range g.Days {
		width = max(width, lipgloss.Width(grid.DayLabel(day.Date, opts.DayFormat)))
	}

	cells := make([]string, 0, len(labels))
	for _, label := range labels {
		cells = append(cells, opts.Styles.Weekday.Render(pad(label, width)))
	}
	weekdayRow := strings.Join(cells, " ")

	title := grid.MonthName(g.Window.StartDateOfMonth, opts.MonthNames, opts.MonthFormat)
	lines := []string{
		opts.Styles.Title.Copy().Width(lipgloss.Width(weekdayRow)).Align(lipgloss.Center).Render(title),
		weekdayRow,
	}

	for _, week := range g.Weeks() {
		cells = cells[:0]
		if header.ShowWeekNumbers {
			cells = append(cells, opts.Styles.WeekNumber.Render(pad(weekNumber(week[0]), width)))
		}
		for _, day := range week {
			cells = append(cells, renderDay(day, width, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

// Months renders grids side by side.
func Months(grids []*grid.Grid, opts Options) string {
	blocks := make([]string, 0, len(grids)*2)
	for i, g := range grids {
		if i > 0 {
			blocks = append(blocks, "   ")
		}
		blocks = append(blocks, Month(g, opts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func renderDay(day grid.Day, width int, opts Options) string {
	if day.IsPassive && opts.HidePassive {
		return strings.Repeat(" ", width)
	}

	s := opts.Styles
	style := s.Day.Copy()
	if day.IsWeekend {
		style = s.Weekend.Copy().Inherit(style)
	}
	if day.IsPassive {
		style = s.Passive.Copy()
	}
	for _, mark := range day.Ranges {
		switch {
		case mark.IsStartEdge || mark.IsEndEdge:
			style = rangeStyle(s.Edge, mark.Color).Inherit(style)
		case mark.IsInRange:
			style = rangeStyle(s.InRange, mark.Color).Inherit(style)
		}
	}
	if day.Preview != nil {
		style = s.Preview.Copy().Inherit(style)
	}
	if day.InDrag {
		style = s.Drag.Copy().Inherit(style)
	}
	if day.IsSelected {
		style = s.Selected.Copy().Inherit(style)
	}
	if day.IsToday {
		style = s.Today.Copy().Inherit(style)
	}
	if day.IsDisabled {
		style = s.Disabled.Copy().Inherit(style)
	}

	return style.Render(pad(grid.DayLabel(day.Date, opts.DayFormat), width))
}

// rangeStyle tints base with the range's own color when it has one.
func rangeStyle(base lipgloss.Style, color string) lipgloss.Style {
	style := base.Copy()
	if color != "" {
		style = style.Background(lipgloss.Color(color))
	}
	return style
}

func hasWeekNumbers(g *grid.Grid) bool {
	return len(g.Days) > 0 && g.Days[0].WeekNumber > 0
}

func weekNumber(day grid.Day) string {
	if day.WeekNumber == 0 {
		return ""
	}
	return fmt.Sprint(day.WeekNumber)
}

// pad right-aligns s in a cell of the given width.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/username/month-grid/internal/grid"
	"github.com/username/month-grid/internal/picker"
	"github.com/username/month-grid/internal/state"
	"github.com/username/month-grid/pkg/dateutil"
)

type pickerService interface {
	Location() *time.Location
	Months(q picker.Query) []*grid.Grid
	Title(g *grid.Grid) string
	Weekdays() []string
	Ranges() []grid.Range
	SetRange(index int, r grid.Range) error
}

// Deps are the handler dependencies
type Deps struct {
	Logger          *zap.Logger
	ResponseHandler ResponseHandler
	Picker          pickerService
}

// MonthResponse is one computed month
type MonthResponse struct {
	Month string     `json:"month"` // YYYY-MM
	Title string     `json:"title"`
	Grid  *grid.Grid `json:"grid"`
}

// GridResponse is the body of GET /api/grid
type GridResponse struct {
	Weekdays []string        `json:"weekdays"`
	Months   []MonthResponse `json:"months"`
}

// RangeRequest is the body of PUT /api/ranges/{index}. Empty bounds are open.
type RangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Key       string `json:"key"`
	Color     string `json:"color"`
	Disabled  bool   `json:"disabled"`
}

type gridHandlers struct {
	ResponseHandler ResponseHandler
	Picker          pickerService
	logger          *zap.Logger
}

// NewGridHandlers creates the grid and selection handlers
func NewGridHandlers(deps *Deps) *gridHandlers {
	return &gridHandlers{
		ResponseHandler: deps.ResponseHandler,
		Picker:          deps.Picker,
		logger:          deps.Logger,
	}
}

func (h *gridHandlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/grid", h.GetGrid)
	r.Get("/weekdays", h.GetWeekdays)
	r.Get("/ranges", h.GetRanges)
	r.Put("/ranges/{index}", h.PutRange)
	return r
}

func (h *gridHandlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	q, err := parseGridQuery(r.URL.Query(), h.Picker.Location())
	if err != nil {
		h.ResponseHandler.HandleError(w, err)
		return
	}

	grids := h.Picker.Months(q)
	resp := GridResponse{
		Weekdays: h.Picker.Weekdays(),
		Months:   make([]MonthResponse, 0, len(grids)),
	}
	for _, g := range grids {
		resp.Months = append(resp.Months, MonthResponse{
			Month: g.Window.StartDateOfMonth.Format("2006-01"),
			Title: h.Picker.Title(g),
			Grid:  g,
		})
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}

func (h *gridHandlers) GetWeekdays(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.Picker.Weekdays())
}

func (h *gridHandlers) GetRanges(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.Picker.Ranges())
}

func (h *gridHandlers) PutRange(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		h.ResponseHandler.HandleError(w, NewValidationError("index must be a non-negative integer"))
		return
	}

	var req RangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, NewValidationError("invalid JSON body: %v", err))
		return
	}

	loc := h.Picker.Location()
	start, err := parseOptionalDate("start_date", req.StartDate, loc)
	if err != nil {
		h.ResponseHandler.HandleError(w, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate, loc)
	if err != nil {
		h.ResponseHandler.HandleError(w, err)
		return
	}

	rng := grid.Range{
		DateRange: grid.DateRange{StartDate: start, EndDate: end},
		Key:       req.Key,
		Color:     req.Color,
		Disabled:  req.Disabled,
	}
	if err := h.Picker.SetRange(index, rng); err != nil {
		if errors.Is(err, state.ErrIndexOutOfRange) {
			err = NewValidationError("%v", err)
		}
		h.ResponseHandler.HandleError(w, err)
		return
	}

	h.logger.Info("Range updated via API", zap.Int("index", index))
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.Picker.Ranges())
}

func parseGridQuery(values url.Values, loc *time.Location) (picker.Query, error) {
	var q picker.Query

	if s := values.Get("month"); s != "" {
		month, err := dateutil.ParseMonth(s, loc)
		if err != nil {
			return q, NewValidationError("month must be YYYY-MM, got %q", s)
		}
		q.Month = month
	}
	if s := values.Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > picker.MaxMonths {
			return q, NewValidationError("months must be between 1 and %d", picker.MaxMonths)
		}
		q.Months = n
	}
	if s := values.Get("focused"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, NewValidationError("focused must be a non-negative integer")
		}
		q.FocusedRange = [2]int{n, 0}
	}
	if s := values.Get("date"); s != "" {
		d, err := dateutil.ParseDateIn(s, loc)
		if err != nil {
			return q, NewValidationError("date: %v", err)
		}
		q.Date = d
	}

	var err error
	if q.Drag, err = parseRangeParams(values, "drag", loc); err != nil {
		return q, err
	}
	if q.Preview, err = parseRangeParams(values, "preview", loc); err != nil {
		return q, err
	}
	if q.DisablePreview, err = parseBool(values, "disable_preview"); err != nil {
		return q, err
	}

	for name, dst := range map[string]**bool{"fixed_height": &q.FixedHeight, "week_numbers": &q.ShowWeekNumbers} {
		if values.Get(name) == "" {
			continue
		}
		v, err := parseBool(values, name)
		if err != nil {
			return q, err
		}
		*dst = &v
	}

	return q, nil
}

// parseRangeParams reads <prefix>_start and <prefix>_end; nil when both
// are absent
func parseRangeParams(values url.Values, prefix string, loc *time.Location) (*grid.DateRange, error) {
	startStr, endStr := values.Get(prefix+"_start"), values.Get(prefix+"_end")
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	start, err := parseOptionalDate(prefix+"_start", startStr, loc)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(prefix+"_end", endStr, loc)
	if err != nil {
		return nil, err
	}
	return &grid.DateRange{StartDate: start, EndDate: end}, nil
}

func parseOptionalDate(name, s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := dateutil.ParseDateIn(s, loc)
	if err != nil {
		return time.Time{}, NewValidationError("%s: %v", name, err)
	}
	return d, nil
}

func parseBool(values url.Values, name string) (bool, error) {
	s := values.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, NewValidationError("%s must be a boolean, got %q", name, s)
	}
	return v, nil
}

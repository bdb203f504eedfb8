// Package state persists the committed selection ranges between runs.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/month-grid/internal/grid"
)

const dateLayout = "2006-01-02"

// ErrIndexOutOfRange is returned by SetRange for an index past the end
var ErrIndexOutOfRange = errors.New("range index out of range")

// Selection represents the persisted selection state
type Selection struct {
	Ranges    []StoredRange `json:"ranges"`
	UpdatedAt string        `json:"updated_at,omitempty"`
}

// StoredRange is a range with calendar-day bounds; an empty bound is open
type StoredRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Key       string `json:"key,omitempty"`
	Color     string `json:"color,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// SelectionStore manages the selection file. Safe for concurrent use.
type SelectionStore struct {
	stateFile string
	logger    *zap.Logger

	mu    sync.RWMutex
	state *Selection
	now   func() time.Time
}

// NewSelectionStore creates a new selection store
func NewSelectionStore(stateFile string, logger *zap.Logger) *SelectionStore {
	return &SelectionStore{
		stateFile: stateFile,
		logger:    logger,
		state:     &Selection{},
		now:       time.Now,
	}
}

// Load loads the selection from file
func (s *SelectionStore) Load() error {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Created on first save
			s.mu.Lock()
			s.state = &Selection{}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state Selection
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	for i, r := range state.Ranges {
		if _, err := r.toRange(time.UTC); err != nil {
			return fmt.Errorf("state file range %d: %w", i, err)
		}
	}

	s.mu.Lock()
	s.state = &state
	s.mu.Unlock()

	s.logger.Info("Selection loaded",
		zap.String("file", s.stateFile),
		zap.Int("ranges", len(state.Ranges)))

	return nil
}

// save writes the state; callers hold mu
func (s *SelectionStore) save() error {
	s.state.UpdatedAt = s.now().Format(time.RFC3339)

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(s.stateFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Info("Selection saved",
		zap.String("file", s.stateFile),
		zap.Int("ranges", len(s.state.Ranges)))

	return nil
}

// Ranges returns the committed ranges with bounds at midnight in loc
func (s *SelectionStore) Ranges(loc *time.Location) []grid.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]grid.Range, 0, len(s.state.Ranges))
	for _, r := range s.state.Ranges {
		gr, err := r.toRange(loc)
		if err != nil {
			// Validated on load and on write.
			s.logger.Warn("Skipping malformed stored range", zap.Error(err))
			continue
		}
		out = append(out, gr)
	}
	return out
}

// SetRange commits r at index and saves. Index len(ranges) appends.
func (s *SelectionStore) SetRange(index int, r grid.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index > len(s.state.Ranges) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.state.Ranges))
	}

	// Restored when the write fails so memory matches the file
	prev := *s.state
	stored := fromRange(r)
	ranges := make([]StoredRange, len(prev.Ranges), len(prev.Ranges)+1)
	copy(ranges, prev.Ranges)
	if index == len(ranges) {
		ranges = append(ranges, stored)
	} else {
		ranges[index] = stored
	}
	s.state.Ranges = ranges

	if err := s.save(); err != nil {
		*s.state = prev
		return err
	}

	s.logger.Info("Range committed",
		zap.Int("index", index),
		zap.String("start", stored.StartDate),
		zap.String("end", stored.EndDate),
		zap.String("key", stored.Key))
	return nil
}

// Clear drops all committed ranges and saves
func (s *SelectionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.state
	s.state.Ranges = nil
	if err := s.save(); err != nil {
		*s.state = prev
		return err
	}
	return nil
}

// GetCurrentState returns a copy of the current state
func (s *SelectionStore) GetCurrentState() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := *s.state
	out.Ranges = append([]StoredRange(nil), s.state.Ranges...)
	return out
}

func fromRange(r grid.Range) StoredRange {
	stored := StoredRange{Key: r.Key, Color: r.Color, Disabled: r.Disabled}
	if !r.StartDate.IsZero() {
		stored.StartDate = r.StartDate.Format(dateLayout)
	}
	if !r.EndDate.IsZero() {
		stored.EndDate = r.EndDate.Format(dateLayout)
	}
	return stored
}

func (r StoredRange) toRange(loc *time.Location) (grid.Range, error) {
	out := grid.Range{Key: r.Key, Color: r.Color, Disabled: r.Disabled}
	var err error
	if r.StartDate != "" {
		if out.StartDate, err = time.ParseInLocation(dateLayout, r.StartDate, loc); err != nil {
			return out, fmt.Errorf("invalid start date %q: %w", r.StartDate, err)
		}
	}
	if r.EndDate != "" {
		if out.EndDate, err = time.ParseInLocation(dateLayout, r.EndDate, loc); err != nil {
			return out, fmt.Errorf("invalid end date %q: %w", r.EndDate, err)
		}
	}
	return out, nil
}

// Package daemon keeps long-running processes in step with their day-off
// calendar by reloading it on a fixed period.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReloadFunc reloads calendar data
type ReloadFunc func(ctx context.Context) error

// Invalidator drops state derived from the calendar
type Invalidator interface {
	Invalidate()
}

// Daemon periodically reloads the calendar and invalidates computed grids
type Daemon struct {
	reload      ReloadFunc
	invalidator Invalidator
	interval    time.Duration
	logger      *zap.Logger

	mu          sync.Mutex // Protects the fields below
	running     bool
	lastRunTime time.Time
	lastErr     error
	runs        int
}

// NewDaemon creates a refresher. A zero interval means Start only waits
// for ctx to end.
func NewDaemon(reload ReloadFunc, invalidator Invalidator, interval time.Duration, logger *zap.Logger) *Daemon {
	return &Daemon{
		reload:      reload,
		invalidator: invalidator,
		interval:    interval,
		logger:      logger,
	}
}

// Start blocks until ctx is cancelled, refreshing every interval
func (d *Daemon) Start(ctx context.Context) error {
	if d.interval <= 0 {
		d.logger.Info("Calendar refresh disabled")
		<-ctx.Done()
		return nil
	}

	d.logger.Info("Calendar refresher started", zap.Duration("interval", d.interval))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Calendar refresher stopped")
			return nil

		case <-ticker.C:
			if err := d.RefreshNow(ctx); err != nil {
				d.logger.Error("Calendar refresh failed", zap.Error(err))
			}
		}
	}
}

// RefreshNow reloads the calendar once. Cached grids are kept when the
// reload fails so the last good data keeps serving.
func (d *Daemon) RefreshNow(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return fmt.Errorf("refresh already in progress")
	}
	d.running = true
	d.mu.Unlock()

	start := time.Now()
	err := d.reload(ctx)

	d.mu.Lock()
	d.running = false
	d.lastRunTime = start
	d.lastErr = err
	d.runs++
	d.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to reload calendar: %w", err)
	}

	if d.invalidator != nil {
		d.invalidator.Invalidate()
	}
	d.logger.Info("Calendar reloaded", zap.Duration("took", time.Since(start)))
	return nil
}

// GetStatus returns refresher status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"running":  d.running,
		"interval": d.interval.String(),
		"runs":     d.runs,
	}
	if !d.lastRunTime.IsZero() {
		status["last_run"] = d.lastRunTime.Format(time.RFC3339)
		if d.interval > 0 {
			status["next_run"] = d.lastRunTime.Add(d.interval).Format(time.RFC3339)
		}
	}
	if d.lastErr != nil {
		status["last_error"] = d.lastErr.Error()
	}
	return status
}

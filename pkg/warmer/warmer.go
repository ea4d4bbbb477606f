// Package warmer keeps the repository list and module listings in the cache
// fresh on a cron schedule, so searches rarely wait on the index for them.
package warmer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/platinummonkey/modsearch/pkg/observability"
)

// Refresher reloads cached listings and reports how many repositories it saw.
// It is satisfied by *cache.Source.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Warmer runs a Refresher on a cron schedule
type Warmer struct {
	refresher Refresher
	schedule  string
	timeout   time.Duration
	logger    *observability.Logger
	metrics   *observability.Metrics

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun time.Time
	lastErr error
}

// New creates a warmer. schedule uses the standard five-field cron syntax or
// descriptors such as "@every 5m". timeout bounds a single run.
func New(refresher Refresher, schedule string, timeout time.Duration, logger *observability.Logger, metrics *observability.Metrics) (*Warmer, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}
	return &Warmer{
		refresher: refresher,
		schedule:  schedule,
		timeout:   timeout,
		logger:    logger.WithField("component", "warmer"),
		metrics:   metrics,
	}, nil
}

// RunOnce refreshes the listings immediately
func (w *Warmer) RunOnce(ctx context.Context) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	repos, err := w.refresher.Refresh(ctx)
	w.metrics.ObserveWarmerRun(err, repos)

	w.mu.Lock()
	w.lastRun = start
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		w.logger.WithError(err).Error("listing refresh failed")
		return err
	}
	w.logger.WithFields(map[string]interface{}{
		"repositories": repos,
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("listings refreshed")
	return nil
}

// Start runs the warmer once and then on every tick of the schedule
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return fmt.Errorf("warmer already started")
	}

	cronLogger := cron.PrintfLogger(w.logger.Logrus())
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))
	if _, err := c.AddFunc(w.schedule, func() {
		defer observability.RecoverPanic(w.logger, "listing refresh")
		w.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule listing refresh: %w", err)
	}

	go func() {
		defer observability.RecoverPanic(w.logger, "initial listing refresh")
		w.RunOnce(ctx)
	}()

	c.Start()
	w.cron = c
	w.logger.WithField("schedule", w.schedule).Info("listing warmer started")
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish or ctx
// to expire.
func (w *Warmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		w.logger.Info("listing warmer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastRun returns the start time and outcome of the latest refresh
func (w *Warmer) LastRun() (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastErr
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
)

// TaskRefresher refetches the shared task collection.
type TaskRefresher interface {
	Refresh(ctx context.Context) error
}

// ConnectionHealth reports whether dependencies are reachable.
type ConnectionHealth interface {
	IsOnline() bool
}

// Refresher keeps the view server's task collection warm on a cron
// schedule. Runs are skipped while no one is logged in or the monitor
// reports the backend offline.
type Refresher struct {
	target   TaskRefresher
	health   ConnectionHealth
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron
	runs     atomic.Int64
}

func NewRefresher(target TaskRefresher, health ConnectionHealth, interval time.Duration, logger *zap.Logger) (*Refresher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		target:   target,
		health:   health,
		interval: interval,
		logger:   logger.Named("refresher"),
	}
	if interval <= 0 {
		return r, nil
	}

	seconds := int(interval.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	r.cron = cron.New(cron.WithSeconds())
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), r.tick); err != nil {
		return nil, fmt.Errorf("schedule refresher: %w", err)
	}
	return r, nil
}

// Start launches the cron scheduler; a zero interval disables it.
func (r *Refresher) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("task refresher started", zap.Duration("interval", r.interval))
}

// Stop waits for a running refresh to finish or ctx to expire.
func (r *Refresher) Stop(ctx context.Context) error {
	if r == nil || r.cron == nil {
		return nil
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runs counts completed refresh attempts.
func (r *Refresher) Runs() int64 {
	return r.runs.Load()
}

func (r *Refresher) tick() {
	if r.health != nil && !r.health.IsOnline() {
		r.logger.Debug("skipping refresh, dependencies offline")
		return
	}

	timeout := r.interval
	if timeout <= 0 || timeout > 30*time.Second {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r.RunOnce(ctx)
}

// RunOnce refreshes immediately.
func (r *Refresher) RunOnce(ctx context.Context) {
	defer r.runs.Add(1)
	err := r.target.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotAuthenticated):
		r.logger.Debug("skipping refresh, no session")
	default:
		r.logger.Warn("task refresh failed", zap.Error(err))
	}
}

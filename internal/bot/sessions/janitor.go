package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/logging"
	"github.com/robfig/cron/v3"
)

// Janitor periodically evicts abandoned sessions.
type Janitor struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	logger   logging.Logger
	cron     *cron.Cron
	now      func() time.Time
}

func NewJanitor(store *Store, ttl, interval time.Duration, logger logging.Logger) *Janitor {
	return &Janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger.With("module", "session_janitor"),
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Enabled reports whether eviction is configured.
func (j *Janitor) Enabled() bool {
	return j.ttl > 0
}

// Start schedules the sweep every interval. It is a no-op when eviction is
// disabled.
func (j *Janitor) Start(ctx context.Context) error {
	if !j.Enabled() {
		j.logger.Info(ctx, "session eviction disabled")
		return nil
	}
	if j.interval <= 0 {
		return errors.New("janitor interval must be positive")
	}

	j.cron.Schedule(cron.Every(j.interval), cron.FuncJob(func() {
		j.Sweep(ctx)
	}))
	j.cron.Start()

	j.logger.Info(ctx, "session janitor started", "ttl", j.ttl.String(), "interval", j.interval.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep evicts idle sessions once and returns how many were dropped.
func (j *Janitor) Sweep(ctx context.Context) int {
	n := j.store.EvictIdle(j.now(), j.ttl)
	if n > 0 {
		j.logger.Info(ctx, "evicted idle sessions", "count", n)
	}
	return n
}

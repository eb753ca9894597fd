package tempfiles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor sweeps stale uploads on a cron schedule.
type Janitor struct {
	mgr    *Manager
	maxAge time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// NewJanitor registers the sweep. spec accepts standard cron expressions and
// descriptors such as "@every 30m".
func NewJanitor(mgr *Manager, spec string, maxAge time.Duration, logger *slog.Logger) (*Janitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Janitor{mgr: mgr, maxAge: maxAge, cron: cron.New(), logger: logger}
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return j, nil
}

func (j *Janitor) run() {
	if _, err := j.mgr.Sweep(j.maxAge); err != nil {
		j.logger.Error("tempfiles.janitor.sweep_failed", "error", err)
	}
}

func (j *Janitor) Start() {
	j.logger.Info("tempfiles.janitor.started", "dir", j.mgr.Dir(), "max_age", j.maxAge.String())
	j.cron.Start()
}

// Stop waits for a running sweep or for ctx, whichever comes first.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("tempfiles.janitor.stop_interrupted")
	}
}

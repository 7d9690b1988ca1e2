package trigger

import (
	"context"
	"time"

	"github.com/runoshun/weekplan/internal/domain"
	"golang.org/x/time/rate"
)

// Throttle coalesces bursts of Fire calls and runs its job at most once
// per interval. A Fire during a wait is not lost: it produces one trailing run.
// Fields are ordered to minimize memory padding.
type Throttle struct {
	job     Job
	limiter *rate.Limiter
	pending chan struct{}
	logger  domain.Logger
	name    string
}

// NewThrottle creates a Throttle for job.
func NewThrottle(name string, interval time.Duration, job Job, logger domain.Logger) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		name:    name,
		job:     job,
		limiter: rate.NewLimiter(limit, 1),
		pending: make(chan struct{}, 1),
		logger:  domain.LoggerOrNop(logger),
	}
}

// Fire requests a run. It never blocks.
func (t *Throttle) Fire() {
	select {
	case t.pending <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (t *Throttle) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.pending:
		}
		if err := t.limiter.Wait(ctx); err != nil {
			return
		}
		if err := t.job(ctx); err != nil {
			t.logger.Error("trigger", "job failed", "job", t.name, "err", err)
			continue
		}
		t.logger.Debug("trigger", "job finished", "job", t.name)
	}
}

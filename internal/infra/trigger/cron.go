// Package trigger drives use cases from cron schedules and file changes.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/runoshun/weekplan/internal/domain"
)

// Job is a unit of work started by a trigger.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron specs.
// Specs accept an optional seconds field and descriptors such as @hourly.
// Fields are ordered to minimize memory padding.
type Scheduler struct {
	parser cron.Parser
	c      *cron.Cron
	ctx    context.Context
	logger domain.Logger
}

// NewScheduler creates a Scheduler evaluating specs in loc.
// Jobs receive ctx and are skipped once it is done.
func NewScheduler(ctx context.Context, loc *time.Location, logger domain.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		parser: parser,
		c:      cron.New(cron.WithParser(parser), cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		logger: domain.LoggerOrNop(logger),
	}
}

// ValidateSpec reports whether spec parses.
func (s *Scheduler) ValidateSpec(spec string) error {
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Add registers job under name. An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.logger.Info("trigger", "job disabled", "job", name)
		return nil
	}
	if err := s.ValidateSpec(spec); err != nil {
		return err
	}
	_, err := s.c.AddFunc(spec, func() {
		if s.ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.logger.Error("trigger", "job failed", "job", name, "err", err)
			return
		}
		s.logger.Info("trigger", "job finished", "job", name, "took", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}
	s.logger.Info("trigger", "job registered", "job", name, "spec", spec)
	return nil
}

// Next returns the next activation time of every registered job.
func (s *Scheduler) Next() []time.Time {
	entries := s.c.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

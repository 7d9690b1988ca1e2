package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/infra/trigger"
	"github.com/runoshun/weekplan/internal/infra/watch"
	"github.com/runoshun/weekplan/internal/usecase"
)

// Daemon runs allocation and training on cron schedules and reacts to
// file changes made by other processes.
type Daemon struct {
	c *Container
}

// Daemon returns the background runner for `weekplan serve`.
func (c *Container) Daemon() *Daemon {
	return &Daemon{c: c}
}

// Run blocks until ctx is done or a component fails.
func (d *Daemon) Run(ctx context.Context) error {
	c := d.c
	if !c.IsOpen() {
		return ErrNotOpen
	}
	if !c.StoreInitializer.IsInitialized() {
		return domain.ErrNotInitialized
	}
	loc, err := c.AppConfig.Location()
	if err != nil {
		return err
	}
	if c.AppConfig.Daemon.WatchStore && c.Config.StorePath == "" {
		return fmt.Errorf("daemon.watch_store requires a file-based store (driver %q)", c.AppConfig.Store.Driver)
	}

	allocate := func(ctx context.Context) error {
		out, err := c.AllocateScheduleUseCase().Execute(ctx, usecase.AllocateScheduleInput{})
		if err != nil {
			return err
		}
		c.Logger.Info("daemon", "schedule run", "run", out.RunID, "newly", len(out.Newly), "unscheduled", len(out.Unscheduled))
		return nil
	}
	retrain := func(ctx context.Context) error {
		out, err := c.RetrainProfileUseCase().Execute(ctx, usecase.RetrainProfileInput{})
		if err != nil {
			return err
		}
		c.Logger.Info("daemon", "retrain run", "message", out.Message)
		return nil
	}

	// Jobs share the run context so a failing watcher also cancels them.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := trigger.NewScheduler(ctx, loc, c.Logger)
	if err := sched.Add("schedule", c.AppConfig.Daemon.ScheduleSpec, allocate); err != nil {
		return err
	}
	if err := sched.Add("retrain", c.AppConfig.Daemon.RetrainSpec, retrain); err != nil {
		return err
	}

	var (
		wg   sync.WaitGroup
		errc = make(chan error, 3)
	)
	spawn := func(fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errc <- err
				cancel()
			}
		}()
	}

	if c.Config.ProfilePath != "" {
		profileWatcher := watch.New(c.Config.ProfilePath, watch.DefaultDebounce, func() {
			if err := c.Profiles.Reload(); err != nil {
				c.Logger.Warn("daemon", "profile reload failed", "err", err)
			}
		}, c.Logger)
		spawn(profileWatcher.Watch)
	}

	if c.AppConfig.Daemon.WatchStore {
		throttle := trigger.NewThrottle("store-change", c.AppConfig.MinInterval(), allocate, c.Logger)
		storeWatcher := watch.New(c.Config.StorePath, watch.DefaultDebounce, throttle.Fire, c.Logger)
		spawn(func(ctx context.Context) error {
			throttle.Run(ctx)
			return nil
		})
		spawn(storeWatcher.Watch)
	}

	sched.Start()
	c.Logger.Info("daemon", "started",
		"schedule_spec", c.AppConfig.Daemon.ScheduleSpec,
		"retrain_spec", c.AppConfig.Daemon.RetrainSpec,
		"watch_store", c.AppConfig.Daemon.WatchStore,
	)

	<-ctx.Done()
	sched.Stop()
	wg.Wait()
	c.Logger.Info("daemon", "stopped")

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/runoshun/weekplan/internal/domain"
)

// AllocateScheduleInput contains the parameters for an allocation run.
type AllocateScheduleInput struct{}

// AllocateScheduleOutput contains the result of an allocation run.
// Fields are ordered to minimize memory padding.
type AllocateScheduleOutput struct {
	Already     []*domain.Task      // Pending tasks that kept their existing slot
	Newly       []*domain.Task      // Tasks given a slot by this run
	Assignments []domain.Assignment // How each newly scheduled task was placed
	Unscheduled []int               // IDs of tasks with no feasible slot
	WeekStart   time.Time
	RunID       string
}

// Scheduled returns already-scheduled tasks followed by newly scheduled ones.
func (o *AllocateScheduleOutput) Scheduled() []*domain.Task {
	out := make([]*domain.Task, 0, len(o.Already)+len(o.Newly))
	out = append(out, o.Already...)
	return append(out, o.Newly...)
}

// AllocateSchedule is the use case for placing pending tasks into the week.
// Runs are serialized through the RunLocker so two runs never hand out the same slot.
// Fields are ordered to minimize memory padding.
type AllocateSchedule struct {
	tasks    domain.TaskRepository
	profiles domain.ProfileProvider
	locker   domain.RunLocker
	rand     domain.RandomSource
	clock    domain.Clock
	logger   domain.Logger
	config   *domain.Config
}

// NewAllocateSchedule creates a new AllocateSchedule use case.
func NewAllocateSchedule(
	tasks domain.TaskRepository,
	profiles domain.ProfileProvider,
	locker domain.RunLocker,
	rand domain.RandomSource,
	clock domain.Clock,
	config *domain.Config,
	logger domain.Logger,
) *AllocateSchedule {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &AllocateSchedule{
		tasks:    tasks,
		profiles: profiles,
		locker:   locker,
		rand:     rand,
		clock:    clock,
		config:   config,
		logger:   domain.LoggerOrNop(logger),
	}
}

// Execute assigns a slot to every pending task that lacks a valid future one.
// Processing:
//   - Build the week's occupancy from pending tasks
//   - Allocate remaining tasks in ascending ID order
//   - Persist all new scheduled times as one batch
//
// If the batch cannot be saved, in-memory scheduled times are restored and
// domain.ErrSchedulePersist is returned.
func (uc *AllocateSchedule) Execute(ctx context.Context, _ AllocateScheduleInput) (*AllocateScheduleOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire schedule lock: %w", err)
		}
		defer unlock()
	}

	pending, err := uc.tasks.List(ctx, domain.FilterStatus(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}

	now := uc.clock.Now()
	out := &AllocateScheduleOutput{
		RunID:     uuid.NewString()[:8],
		WeekStart: domain.StartOfWeek(now, loc),
	}
	if len(pending) == 0 {
		return out, nil
	}

	cal, already, toSchedule := domain.BuildCalendar(now, loc, pending)
	out.Already = already
	profile := uc.profiles.Current()
	assigned, skipped := domain.NewAllocator(profile, uc.rand, uc.config.Policy()).Allocate(cal, toSchedule)

	previous := make([]*time.Time, len(assigned))
	updates := make([]domain.ScheduleUpdate, len(assigned))
	for i, a := range assigned {
		at := cal.SlotTime(a.Slot)
		previous[i] = a.Task.ScheduledTime
		a.Task.ScheduledTime = &at
		updates[i] = domain.ScheduleUpdate{TaskID: a.Task.ID, ScheduledTime: at}
		out.Newly = append(out.Newly, a.Task)
	}
	out.Assignments = assigned
	for _, t := range skipped {
		out.Unscheduled = append(out.Unscheduled, t.ID)
	}

	if len(updates) > 0 {
		if err := uc.tasks.SaveSchedule(ctx, updates); err != nil {
			for i, a := range assigned {
				a.Task.ScheduledTime = previous[i]
			}
			uc.logger.Error("schedule", "persist failed", "run", out.RunID, "err", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrSchedulePersist, err)
		}
	}

	uc.logger.Info("schedule", "allocation finished",
		"run", out.RunID,
		"already", len(out.Already),
		"newly", len(out.Newly),
		"unscheduled", len(out.Unscheduled),
		"profile_trained", profile.IsTrained(),
	)
	return out, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// ToggleMyDayInput contains the parameters for toggling a task on today's list.
type ToggleMyDayInput struct {
	TaskID int // Task ID to toggle
}

// ToggleMyDayOutput contains the result of toggling.
type ToggleMyDayOutput struct {
	Task  *domain.Task // The updated task
	Added bool         // True when the task is now on today's list
}

// ToggleMyDay puts a task on the My Day list for today, or takes it off.
// A mark left over from an earlier day counts as off.
type ToggleMyDay struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	config *domain.Config
	logger domain.Logger
}

// NewToggleMyDay creates a new ToggleMyDay use case.
func NewToggleMyDay(tasks domain.TaskRepository, clock domain.Clock, config *domain.Config, logger domain.Logger) *ToggleMyDay {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &ToggleMyDay{tasks: tasks, clock: clock, config: config, logger: domain.LoggerOrNop(logger)}
}

// Execute flips the task's My Day mark and saves it.
func (uc *ToggleMyDay) Execute(ctx context.Context, in ToggleMyDayInput) (*ToggleMyDayOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	added := task.ToggleMyDay(uc.clock.Now(), loc)
	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	uc.logger.Info("task", "my day toggled", "id", task.ID, "added", added)

	return &ToggleMyDayOutput{Task: task, Added: added}, nil
}

package usecase

import (
	"context"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID int // Task ID (required)
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Task    *domain.Task    // The task details
	Kind    domain.WorkKind // Deep or shallow, from the predicted duration
	InMyDay bool            // On today's My Day list
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	config *domain.Config
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, clock domain.Clock, config *domain.Config) *ShowTask {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &ShowTask{
		tasks:  tasks,
		clock:  clock,
		config: config,
	}
}

// Execute retrieves and returns the task details.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	return &ShowTaskOutput{
		Task:    task,
		Kind:    task.Kind(uc.config.Calendar.DeepWorkThresholdMin),
		InMyDay: task.InMyDay(uc.clock.Now(), loc),
	}, nil
}

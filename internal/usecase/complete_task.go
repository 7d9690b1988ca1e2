package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	TaskID int // Task ID to complete
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task *domain.Task // The completed task
}

// CompleteTask is the use case for marking a task as complete.
// The time from creation to completion becomes the task's actual duration,
// which later feeds profile training.
type CompleteTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *CompleteTask {
	return &CompleteTask{
		tasks:  tasks,
		clock:  clock,
		logger: domain.LoggerOrNop(logger),
	}
}

// Execute marks a task as complete.
// Preconditions:
//   - Task exists
//   - Status is pending
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	now := uc.clock.Now()
	minutes := int(now.Sub(task.Created).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	task.Status = domain.StatusCompleted
	task.CompletedAt = &now
	task.ActualTimeTakenMin = &minutes

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	uc.logger.Info("task", "completed", "id", task.ID, "actual_min", minutes)

	return &CompleteTaskOutput{Task: task}, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID int // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, logger: domain.LoggerOrNop(logger)}
}

// Execute deletes a task. Its slot is freed for the next allocation run.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Delete(ctx, in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	uc.logger.Info("task", "deleted", "id", in.TaskID)

	return &DeleteTaskOutput{Task: task}, nil
}

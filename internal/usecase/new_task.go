// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/weekplan/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	DueDate          *time.Time // Deadline (optional)
	PredictedTimeMin *int       // Duration estimate in minutes (optional, default 30)
	Name             string     // Task name (required)
	Priority         string     // Priority label (optional)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task   *domain.Task
	TaskID int // The ID of the created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		clock:  clock,
		logger: domain.LoggerOrNop(logger),
	}
}

// Execute creates a new pending task with the given input.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	task, err := buildTask(in, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	// Get next task ID
	id, err := uc.tasks.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}
	task.ID = id

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	uc.logger.Info("task", "created", "id", id, "name", task.Name)

	return &NewTaskOutput{TaskID: id, Task: task}, nil
}

// buildTask validates input and returns an unsaved pending task.
func buildTask(in NewTaskInput, now time.Time) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if in.PredictedTimeMin != nil && *in.PredictedTimeMin <= 0 {
		return nil, domain.ErrInvalidMinutes
	}

	task := &domain.Task{
		Name:              name,
		PredictedPriority: strings.TrimSpace(in.Priority),
		Status:            domain.StatusPending,
		Created:           now,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}
	if in.PredictedTimeMin != nil {
		m := *in.PredictedTimeMin
		task.PredictedTimeMin = &m
	}
	return task, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/weekplan/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Status  *domain.Status // nil = all statuses
	Grouped bool           // Group into My Day, pending and recently completed
}

// ListTasksOutput contains the listed tasks.
// Tasks is in ascending ID order; Groups is set only for grouped listings.
type ListTasksOutput struct {
	Groups *domain.TaskGroups
	Tasks  []*domain.Task
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	config *domain.Config
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository, clock domain.Clock, config *domain.Config) *ListTasks {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &ListTasks{tasks: tasks, clock: clock, config: config}
}

// Execute returns the tasks matching the filter.
// A grouped listing ignores Status and reads every task.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := domain.TaskFilter{Status: in.Status}
	if in.Grouped {
		filter = domain.TaskFilter{}
	}
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := &ListTasksOutput{Tasks: tasks}
	if !in.Grouped {
		return out, nil
	}

	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}
	groups := domain.GroupTasks(tasks, uc.clock.Now(), loc)
	out.Groups = &groups
	return out, nil
}

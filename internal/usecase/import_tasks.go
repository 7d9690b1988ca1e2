package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/weekplan/internal/domain"
)

// dueLayouts are the accepted formats for `due` in import files.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// importFile is the YAML document accepted by ImportTasks.
type importFile struct {
	Tasks []importEntry `yaml:"tasks"`
}

type importEntry struct {
	Minutes  *int   `yaml:"minutes"`
	Name     string `yaml:"name"`
	Due      string `yaml:"due"`
	Priority string `yaml:"priority"`
}

// ImportTasksInput contains the parameters for importing tasks.
type ImportTasksInput struct {
	Content []byte // YAML document
	DryRun  bool   // If true, parse and validate without creating tasks
}

// ImportTasksOutput contains the created tasks (or those that would be created).
type ImportTasksOutput struct {
	Tasks []*domain.Task
}

// ImportTasks is the use case for creating tasks in bulk from a YAML file.
type ImportTasks struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
	config *domain.Config
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskRepository, clock domain.Clock, config *domain.Config, logger domain.Logger) *ImportTasks {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &ImportTasks{tasks: tasks, clock: clock, config: config, logger: domain.LoggerOrNop(logger)}
}

// Execute validates every entry before saving any of them.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	var doc importFile
	dec := yaml.NewDecoder(bytes.NewReader(in.Content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImportFile, err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", domain.ErrInvalidImportFile)
	}

	now := uc.clock.Now()
	drafts := make([]*domain.Task, 0, len(doc.Tasks))
	for i, e := range doc.Tasks {
		input := NewTaskInput{Name: e.Name, Priority: e.Priority, PredictedTimeMin: e.Minutes}
		if strings.TrimSpace(e.Due) != "" {
			due, err := ParseDue(e.Due, loc)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", i+1, err)
			}
			input.DueDate = &due
		}
		task, err := buildTask(input, now)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, task)
	}

	if in.DryRun {
		return &ImportTasksOutput{Tasks: drafts}, nil
	}

	for _, task := range drafts {
		id, err := uc.tasks.NextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate task ID: %w", err)
		}
		task.ID = id
		if err := uc.tasks.Save(ctx, task); err != nil {
			return nil, fmt.Errorf("save task %q: %w", task.Name, err)
		}
	}

	uc.logger.Info("task", "imported", "count", len(drafts))
	return &ImportTasksOutput{Tasks: drafts}, nil
}

// ParseDue accepts RFC 3339 or a local date/time in loc.
func ParseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad due date %q", domain.ErrInvalidImportFile, s)
}

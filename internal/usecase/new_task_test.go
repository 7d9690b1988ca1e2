package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_Execute_Success(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	clock := &testutil.MockClock{NowTime: weekStart}
	logger := &testutil.MockLogger{}
	uc := NewNewTask(repo, clock, logger)
	due := weekStart.Add(50 * time.Hour)

	// Execute
	out, err := uc.Execute(context.Background(), NewTaskInput{
		Name:             "  Write quarterly report ",
		DueDate:          &due,
		PredictedTimeMin: intPtr(120),
		Priority:         "High",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.TaskID)

	task := repo.Tasks[1]
	require.NotNil(t, task)
	assert.Equal(t, "Write quarterly report", task.Name)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, weekStart, task.Created)
	assert.Equal(t, due, *task.DueDate)
	assert.Equal(t, 120, *task.PredictedTimeMin)
	assert.Equal(t, "High", task.PredictedPriority)
	assert.Nil(t, task.ScheduledTime)
	assert.True(t, logger.Has("info", "created"))
}

func TestNewTask_Execute_Validation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		in      NewTaskInput
	}{
		{name: "empty name", in: NewTaskInput{Name: "   "}, wantErr: domain.ErrEmptyName},
		{name: "zero minutes", in: NewTaskInput{Name: "x", PredictedTimeMin: intPtr(0)}, wantErr: domain.ErrInvalidMinutes},
		{name: "negative minutes", in: NewTaskInput{Name: "x", PredictedTimeMin: intPtr(-5)}, wantErr: domain.ErrInvalidMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			uc := NewNewTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.Tasks)
		})
	}
}

func TestNewTask_Execute_NextIDError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.NextIDErr = errors.New("id error")
	uc := NewNewTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

	_, err := uc.Execute(context.Background(), NewTaskInput{Name: "Test"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate task ID")
}

func TestNewTask_Execute_SaveError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.SaveErr = errors.New("save failed")
	uc := NewNewTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

	_, err := uc.Execute(context.Background(), NewTaskInput{Name: "Test"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save task")
}

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

func TestCompleteTask_Execute_Success(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := pendingTask(1, 30)
	task.Created = weekStart
	repo.Add(task)
	now := weekStart.Add(95*time.Minute + 50*time.Second)
	uc := NewCompleteTask(repo, &testutil.MockClock{NowTime: now}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CompleteTaskInput{TaskID: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, out.Task.Status)
	assert.Equal(t, now, *out.Task.CompletedAt)
	assert.Equal(t, 95, *out.Task.ActualTimeTakenMin, "minutes are truncated")
	assert.True(t, repo.Tasks[1].IsTrainable())
}

func TestCompleteTask_Execute_LogsCompletion(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := pendingTask(1, 30)
	task.Created = weekStart
	repo.Add(task)
	logger := &testutil.MockLogger{}
	uc := NewCompleteTask(repo, &testutil.MockClock{NowTime: weekStart.Add(time.Hour)}, logger)

	_, err := uc.Execute(context.Background(), CompleteTaskInput{TaskID: 1})

	require.NoError(t, err)
	assert.True(t, logger.Has("info", "completed"))
}

func TestCompleteTask_Execute_Errors(t *testing.T) {
	done := weekStart
	tests := []struct {
		setup   func(*testutil.MockTaskRepository)
		wantErr error
		name    string
	}{
		{
			name:    "not found",
			setup:   func(*testutil.MockTaskRepository) {},
			wantErr: domain.ErrTaskNotFound,
		},
		{
			name: "already completed",
			setup: func(r *testutil.MockTaskRepository) {
				r.Add(&domain.Task{ID: 1, Status: domain.StatusCompleted, CompletedAt: &done})
			},
			wantErr: domain.ErrAlreadyCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			tt.setup(repo)
			uc := NewCompleteTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

			_, err := uc.Execute(context.Background(), CompleteTaskInput{TaskID: 1})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompleteTask_Execute_ClockBeforeCreation(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := pendingTask(1, 30)
	task.Created = weekStart.Add(time.Hour)
	repo.Add(task)
	uc := NewCompleteTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

	out, err := uc.Execute(context.Background(), CompleteTaskInput{TaskID: 1})

	require.NoError(t, err)
	assert.Equal(t, 0, *out.Task.ActualTimeTakenMin)
}

func TestCompleteTask_Execute_SaveError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(pendingTask(1, 30))
	repo.SaveErr = errors.New("save failed")
	uc := NewCompleteTask(repo, &testutil.MockClock{NowTime: weekStart}, nil)

	_, err := uc.Execute(context.Background(), CompleteTaskInput{TaskID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save task")
}

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

func TestShowTask_Execute(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	deep := pendingTask(1, 90)
	deep.MyDayDate = timePtr(weekStart)
	repo.Add(deep, pendingTask(2, 30))
	uc := NewShowTask(repo, &testutil.MockClock{NowTime: weekStart.Add(9 * time.Hour)}, nil)

	// Execute
	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: 1})
	short, shortErr := uc.Execute(context.Background(), ShowTaskInput{TaskID: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, deep, out.Task)
	assert.Equal(t, domain.WorkDeep, out.Kind)
	assert.True(t, out.InMyDay)

	require.NoError(t, shortErr)
	assert.Equal(t, domain.WorkShallow, short.Kind)
	assert.False(t, short.InMyDay)
}

func TestShowTask_Execute_Errors(t *testing.T) {
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
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			tt.setup(repo)

			_, err := NewShowTask(repo, &testutil.MockClock{NowTime: weekStart}, nil).
				Execute(context.Background(), ShowTaskInput{TaskID: 7})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		repo.GetErr = errors.New("disk")

		_, err := NewShowTask(repo, &testutil.MockClock{NowTime: weekStart}, nil).
			Execute(context.Background(), ShowTaskInput{TaskID: 1})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "get task")
	})
}

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/testutil"
)

// =============================================================================
// Add Command Tests
// =============================================================================

func TestAddCommand_CreateTask(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)

	// Execute
	out, _, err := run(newAddCommand(c), "Reply", "to", "emails")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created task #1: Reply to emails")
	task := repo.Tasks[1]
	require.NotNil(t, task)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Nil(t, task.PredictedTimeMin)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, testNow, task.Created)
}

func TestAddCommand_WithFlags(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)

	_, _, err := run(newAddCommand(c), "Write design doc", "--minutes", "120", "--due", "2024-01-12 18:00", "--priority", "High")

	require.NoError(t, err)
	task := repo.Tasks[1]
	require.NotNil(t, task.PredictedTimeMin)
	assert.Equal(t, 120, *task.PredictedTimeMin)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2024, 1, 12, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, "High", task.PredictedPriority)
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "blank name", args: []string{"  "}, wantErr: domain.ErrEmptyName},
		{name: "zero minutes", args: []string{"x", "--minutes", "0"}, wantErr: domain.ErrInvalidMinutes},
		{name: "bad due date", args: []string{"x", "--due", "next week"}, wantMsg: "invalid --due"},
		{name: "no name", args: []string{}, wantMsg: "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			c, _ := newTestContainer(t, repo)

			_, _, err := run(newAddCommand(c), tt.args...)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, repo.Tasks)
		})
	}
}

// =============================================================================
// List Command Tests
// =============================================================================

func seedTasks(repo *testutil.MockTaskRepository) {
	repo.Add(
		&domain.Task{
			ID:               1,
			Name:             "Write report",
			Status:           domain.StatusPending,
			Created:          testNow.Add(-48 * time.Hour),
			PredictedTimeMin: intPtr(90),
			DueDate:          timePtr(testNow.Add(50 * time.Hour)),
			ScheduledTime:    timePtr(time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)),
		},
		&domain.Task{
			ID:                 2,
			Name:               "Pay rent",
			Status:             domain.StatusCompleted,
			Created:            testNow.Add(-72 * time.Hour),
			CompletedAt:        timePtr(testNow.Add(-3 * time.Hour)),
			ActualTimeTakenMin: intPtr(15),
			PredictedPriority:  "High",
		},
	)
}

func TestListCommand_AllTasks(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newListCommand(c))

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "SCHEDULED")
	assert.Contains(t, lines[1], "Write report")
	assert.Contains(t, lines[1], "90")
	assert.Contains(t, lines[1], "2 days from now")
	assert.Contains(t, lines[1], "Thu Jan 11 09:00")
	assert.Contains(t, lines[2], "completed (3 hours ago)")
	assert.Contains(t, lines[2], "High")
}

func TestListCommand_FilterByStatus(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newListCommand(c), "--status", "completed")

	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Write report")
}

func TestListCommand_InvalidStatus(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)

	_, _, err := run(newListCommand(c), "--status", "done")

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListCommand_Today(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	repo.Add(&domain.Task{
		ID:        3,
		Name:      "Call the bank",
		Status:    domain.StatusPending,
		Created:   testNow.Add(-time.Hour),
		MyDayDate: &today,
	})
	c, _ := newTestContainer(t, repo)

	// Execute
	out, _, err := run(newListCommand(c), "--today")

	// Assert
	require.NoError(t, err)
	myDay := strings.Index(out, "[My Day]")
	pending := strings.Index(out, "[Pending]")
	completed := strings.Index(out, "[Completed (last 24h)]")
	require.True(t, myDay >= 0 && pending > myDay && completed > pending, out)
	assert.Contains(t, out[myDay:pending], "Call the bank")
	assert.Contains(t, out[pending:completed], "Write report")
	assert.Contains(t, out[completed:], "Pay rent")
}

func TestListCommand_TodayEmptyGroups(t *testing.T) {
	c, _ := newTestContainer(t, testutil.NewMockTaskRepository())

	out, _, err := run(newListCommand(c), "-t")

	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "(none)"))
}

func TestListCommand_TodayRejectsStatus(t *testing.T) {
	c, _ := newTestContainer(t, testutil.NewMockTaskRepository())

	_, _, err := run(newListCommand(c), "--today", "--status", "pending")

	assert.Error(t, err)
}

// =============================================================================
// Show / My Day Command Tests
// =============================================================================

func TestShowCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newShowCommand(c), "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Task #1: Write report")
	assert.Contains(t, out, "Kind:       deep (90 min)")
	assert.Contains(t, out, "Due:        Fri Jan 12 12:00 (2 days from now)")
	assert.Contains(t, out, "Scheduled:  Thu Jan 11 09:00")
	assert.Contains(t, out, "My Day:     no")
	assert.Contains(t, out, "Completed:  -")
}

func TestShowCommand_CompletedTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newShowCommand(c), "#2")

	require.NoError(t, err)
	assert.Contains(t, out, "Priority:   High")
	assert.Contains(t, out, "(3 hours ago)")
	assert.Contains(t, out, "Took:       15m0s")
}

func TestShowCommand_JSON(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newShowCommand(c), "1", "--json")

	require.NoError(t, err)
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "Write report", task.Name)
}

func TestShowCommand_Errors(t *testing.T) {
	c, _ := newTestContainer(t, testutil.NewMockTaskRepository())

	_, _, err := run(newShowCommand(c), "9")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, _, err = run(newShowCommand(c), "abc")
	assert.Error(t, err)
}

func TestMyDayCommand_Toggles(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newMyDayCommand(c), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task #1 to My Day: Write report")
	require.NotNil(t, repo.Tasks[1].MyDayDate)

	out, _, err = run(newMyDayCommand(c), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed task #1 from My Day")
	assert.Nil(t, repo.Tasks[1].MyDayDate)
}

func TestMyDayCommand_NotFound(t *testing.T) {
	c, _ := newTestContainer(t, testutil.NewMockTaskRepository())

	_, _, err := run(newMyDayCommand(c), "4")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// =============================================================================
// Done / Rm Command Tests
// =============================================================================

func TestDoneCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newDoneCommand(c), "#1")

	require.NoError(t, err)
	assert.Contains(t, out, "Completed task #1: Write report (took 48h0m0s)")
	task := repo.Tasks[1]
	assert.Equal(t, domain.StatusCompleted, task.Status)
	require.NotNil(t, task.ActualTimeTakenMin)
	assert.Equal(t, 48*60, *task.ActualTimeTakenMin)
}

func TestDoneCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantErr error
	}{
		{name: "already completed", arg: "2", wantErr: domain.ErrAlreadyCompleted},
		{name: "missing task", arg: "99", wantErr: domain.ErrTaskNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			seedTasks(repo)
			c, _ := newTestContainer(t, repo)

			_, _, err := run(newDoneCommand(c), tt.arg)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRmCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTasks(repo)
	c, _ := newTestContainer(t, repo)

	out, _, err := run(newRmCommand(c), "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task #1: Write report")
	assert.NotContains(t, repo.Tasks, 1)
}

func TestRmCommand_InvalidID(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)

	_, _, err := run(newRmCommand(c), "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task ID")
}

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: "#42", want: 42},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTaskID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// Import Command Tests
// =============================================================================

const importYAML = `tasks:
  - name: Write design doc
    minutes: 120
    due: 2024-01-12 18:00
    priority: High
  - name: Reply to emails
`

func TestImportCommand_FromFile(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte(importYAML), 0o600))

	out, _, err := run(newImportCommand(c), path)

	require.NoError(t, err)
	assert.Contains(t, out, "Created task #1: Write design doc")
	assert.Contains(t, out, "Created task #2: Reply to emails")
	assert.Contains(t, out, "Created 2 task(s)")
	assert.Len(t, repo.Tasks, 2)
}

func TestImportCommand_DryRunFromStdin(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)
	cmd := newImportCommand(c)
	cmd.SetIn(strings.NewReader(importYAML))

	out, _, err := run(cmd, "-", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "Would create: Write design doc (120 min)")
	assert.Contains(t, out, "Would create: Reply to emails (30 min)")
	assert.Contains(t, out, "2 task(s) would be created")
	assert.Empty(t, repo.Tasks)
}

func TestImportCommand_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	c, _ := newTestContainer(t, repo)

	_, _, err := run(newImportCommand(c), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cmd := newImportCommand(c)
	cmd.SetIn(strings.NewReader("tasks: []\n"))
	_, _, err = run(cmd, "-")
	assert.ErrorIs(t, err, domain.ErrInvalidImportFile)
}

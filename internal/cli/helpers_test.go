package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/testutil"
)

// Wednesday 10:00 UTC; the week starts Monday 2024-01-08.
var testNow = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(t *testing.T, repo *testutil.MockTaskRepository) (*app.Container, *testutil.MockProfileProvider) {
	t.Helper()
	profiles := &testutil.MockProfileProvider{}
	c := app.NewWithDeps(
		app.Config{DataDir: t.TempDir()},
		domain.NewDefaultConfig(),
		repo,
		&testutil.MockStoreInitializer{Initialized: true},
		profiles,
		&testutil.MockClock{NowTime: testNow},
		&testutil.SequenceRandom{},
		nil,
	)
	return c, profiles
}

// run executes cmd with args and returns stdout and stderr.
func run(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/testutil"
)

func TestWeekCommand_LaunchesTUI(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	c, _ := newTestContainer(t, testutil.NewMockTaskRepository())
	var got *app.Container
	launchTUIFunc = func(c *app.Container) error {
		got = c
		return nil
	}

	_, _, err := run(newWeekCommand(c))

	assert.NoError(t, err)
	assert.Same(t, c, got)
}

func TestWeekCommand_PropagatesError(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	launchTUIFunc = func(*app.Container) error {
		return errors.New("no tty")
	}

	_, _, err := run(newWeekCommand(nil))

	assert.EqualError(t, err, "no tty")
}

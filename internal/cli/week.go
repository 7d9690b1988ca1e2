package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/tui"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// newWeekCommand creates the week command that opens the TUI.
func newWeekCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Browse this week's schedule interactively",
		Long: `Open an interactive grid of the current week.

Each column is a day and each row an hour. Scheduled tasks, preferred
deep/shallow slots from the profile and past hours are highlighted.
Press 's' to run the scheduler, 'd' to complete the selected task and
'?' for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the week view until the user quits.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

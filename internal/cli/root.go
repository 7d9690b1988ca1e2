// Package cli provides the command-line interface for weekplan.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTasks    = "tasks"
	groupPlanning = "planning"
)

// NewRootCommand creates the root command for weekplan.
// It receives the container for dependency injection and version for display.
// The container is opened lazily from the global flags before any subcommand runs.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var opts struct {
		DataDir    string
		ConfigFile string
		LogLevel   string
	}

	root := &cobra.Command{
		Use:   "weekplan",
		Short: "Weekly planner that learns when you work best",
		Long: `weekplan places pending tasks into the hour slots of the current week.

Completed tasks teach it when you usually do deep (long) and shallow (short)
work; new tasks are then scheduled into those preferred slots, falling back
to daytime hours and finally to any free slot before the task's due date.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests) or for commands that need no state
			if c == nil || cmd.Name() == "version" {
				return nil
			}

			if !c.IsOpen() {
				if err := c.Open(app.Options{
					DataDir:    opts.DataDir,
					ConfigFile: opts.ConfigFile,
					LogLevel:   opts.LogLevel,
					Stderr:     cmd.ErrOrStderr(),
				}); err != nil {
					return err
				}
			}

			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "",
		"Data directory (default: $WEEKPLAN_DATA_DIR or ~/.local/share/weekplan)")
	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "",
		"Config file to use instead of <data-dir>/config.toml")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides [log].level)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTasks, Title: "Task Management:"},
		&cobra.Group{ID: groupPlanning, Title: "Planning:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	// Task management commands
	addCmd := newAddCommand(c)
	addCmd.GroupID = groupTasks

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTasks

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTasks

	myDayCmd := newMyDayCommand(c)
	myDayCmd.GroupID = groupTasks

	doneCmd := newDoneCommand(c)
	doneCmd.GroupID = groupTasks

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTasks

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupTasks

	// Planning commands
	scheduleCmd := newScheduleCommand(c)
	scheduleCmd.GroupID = groupPlanning

	retrainCmd := newRetrainCommand(c)
	retrainCmd.GroupID = groupPlanning

	insightsCmd := newInsightsCommand(c)
	insightsCmd.GroupID = groupPlanning

	profileCmd := newProfileCommand(c)
	profileCmd.GroupID = groupPlanning

	weekCmd := newWeekCommand(c)
	weekCmd.GroupID = groupPlanning

	root.AddCommand(
		initCmd,
		configCmd,
		serveCmd,
		addCmd,
		listCmd,
		showCmd,
		myDayCmd,
		doneCmd,
		rmCmd,
		importCmd,
		scheduleCmd,
		retrainCmd,
		insightsCmd,
		profileCmd,
		weekCmd,
		newVersionCommand(version),
	)

	return root
}

// newVersionCommand creates the version command.
func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "weekplan %s\n", version)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Due      string
		Priority string
		Minutes  int
	}

	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Create a new task",
		Long: `Create a new pending task.

The task is not placed in the week until 'weekplan schedule' runs.
Tasks longer than calendar.deep_work_threshold_min count as deep work.

Examples:
  # Create a task with the default 30 minute estimate
  weekplan add Reply to emails

  # Create a deep work task due Friday evening
  weekplan add "Write design doc" --minutes 120 --due "2024-01-12 18:00"

  # Create a task with a priority label
  weekplan add "Renew passport" --priority High`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.NewTaskInput{
				Name:     strings.Join(args, " "),
				Priority: opts.Priority,
			}
			if cmd.Flags().Changed("minutes") {
				input.PredictedTimeMin = &opts.Minutes
			}
			if opts.Due != "" {
				loc, err := c.AppConfig.Location()
				if err != nil {
					return err
				}
				due, err := usecase.ParseDue(opts.Due, loc)
				if err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
				input.DueDate = &due
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s\n", out.TaskID, out.Task.Name)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Minutes, "minutes", "m", 0, "Predicted duration in minutes (default 30)")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "Due date (RFC 3339, \"2006-01-02 15:04\" or \"2006-01-02\")")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority label (e.g. High, Medium, Low)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		Today  bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display a list of tasks in ascending ID order.

Output columns:
  ID, STATUS, MIN, PRIORITY, DUE, SCHEDULED, NAME

DUE is shown relative to now. SCHEDULED is the assigned slot in the
configured timezone.

With --today the list is split into three sections: pending tasks on
today's My Day list, the other pending tasks (earliest due first), and
tasks completed in the last 24 hours (newest first).

Examples:
  # List all tasks
  weekplan list

  # List only pending tasks
  weekplan list --status pending

  # Show today's view
  weekplan list --today`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{Grouped: opts.Today}
			if opts.Status != "" {
				if opts.Today {
					return fmt.Errorf("--status cannot be combined with --today")
				}
				status, err := domain.ParseStatus(opts.Status)
				if err != nil {
					return fmt.Errorf("%w: %q (valid: pending, completed)", err, opts.Status)
				}
				input.Status = &status
			}

			loc, err := c.AppConfig.Location()
			if err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			now := c.Clock.Now()
			if out.Groups == nil {
				printTaskList(w, out.Tasks, now, loc)
				return nil
			}
			printTaskGroup(w, "My Day", out.Groups.MyDay, now, loc)
			_, _ = fmt.Fprintln(w)
			printTaskGroup(w, "Pending", out.Groups.Pending, now, loc)
			_, _ = fmt.Fprintln(w)
			printTaskGroup(w, "Completed (last 24h)", out.Groups.Completed, now, loc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Filter by status (pending, completed)")
	cmd.Flags().BoolVarP(&opts.Today, "today", "t", false, "Group into My Day, pending and recently completed")

	return cmd
}

func printTaskGroup(w io.Writer, title string, tasks []*domain.Task, now time.Time, loc *time.Location) {
	_, _ = fmt.Fprintf(w, "[%s]\n", title)
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "(none)")
		return
	}
	printTaskList(w, tasks, now, loc)
}

// printTaskList prints tasks as aligned columns.
func printTaskList(w io.Writer, tasks []*domain.Task, now time.Time, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tMIN\tPRIORITY\tDUE\tSCHEDULED\tNAME")

	for _, task := range tasks {
		minutes := "-"
		if task.PredictedTimeMin != nil {
			minutes = fmt.Sprintf("%d", *task.PredictedTimeMin)
		}

		priority := "-"
		if task.PredictedPriority != "" {
			priority = task.PredictedPriority
		}

		due := "-"
		if task.DueDate != nil {
			due = humanize.RelTime(*task.DueDate, now, "ago", "from now")
		}

		scheduled := "-"
		if task.ScheduledTime != nil {
			scheduled = formatSlotTime(*task.ScheduledTime, loc)
		}

		status := string(task.Status)
		if task.CompletedAt != nil {
			status = fmt.Sprintf("%s (%s)", task.Status, humanize.RelTime(*task.CompletedAt, now, "ago", "from now"))
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			status,
			minutes,
			priority,
			due,
			scheduled,
			task.Name,
		)
	}
}

// formatSlotTime renders a slot start as "Mon Jan 2 15:04".
func formatSlotTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon Jan 2 15:04")
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Display every field of a single task.

Examples:
  weekplan show 3
  weekplan show "#3" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, out.Task)
			}

			loc, err := c.AppConfig.Location()
			if err != nil {
				return err
			}
			printTaskDetail(w, out, c.Clock.Now(), loc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the task as JSON")

	return cmd
}

func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput, now time.Time, loc *time.Location) {
	task := out.Task
	relative := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return fmt.Sprintf("%s (%s)", formatSlotTime(*t, loc), humanize.RelTime(*t, now, "ago", "from now"))
	}

	priority := "-"
	if task.PredictedPriority != "" {
		priority = task.PredictedPriority
	}
	scheduled := "-"
	if task.ScheduledTime != nil {
		scheduled = formatSlotTime(*task.ScheduledTime, loc)
	}
	took := "-"
	if task.ActualTimeTakenMin != nil {
		took = (time.Duration(*task.ActualTimeTakenMin) * time.Minute).String()
	}
	myDay := "no"
	if out.InMyDay {
		myDay = "yes"
	}

	_, _ = fmt.Fprintf(w, "Task #%d: %s\n\n", task.ID, task.Name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	_, _ = fmt.Fprintf(tw, "Kind:\t%s (%d min)\n", out.Kind, task.EffectiveMinutes())
	_, _ = fmt.Fprintf(tw, "Priority:\t%s\n", priority)
	_, _ = fmt.Fprintf(tw, "Due:\t%s\n", relative(task.DueDate))
	_, _ = fmt.Fprintf(tw, "Scheduled:\t%s\n", scheduled)
	_, _ = fmt.Fprintf(tw, "My Day:\t%s\n", myDay)
	_, _ = fmt.Fprintf(tw, "Created:\t%s\n", relative(&task.Created))
	_, _ = fmt.Fprintf(tw, "Completed:\t%s\n", relative(task.CompletedAt))
	_, _ = fmt.Fprintf(tw, "Took:\t%s\n", took)
	_ = tw.Flush()
}

// newMyDayCommand creates the myday command for toggling a task on today's list.
func newMyDayCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "myday <id>",
		Short: "Add a task to today's list, or remove it",
		Long: `Toggle a task on the My Day list for today.

My Day tasks are listed first by 'weekplan list --today'. The mark only
holds for the day it was set; the next day the task is back in the
regular pending list.

Examples:
  weekplan myday 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.ToggleMyDayUseCase().Execute(cmd.Context(), usecase.ToggleMyDayInput{TaskID: taskID})
			if err != nil {
				return err
			}

			if out.Added {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d to My Day: %s\n", out.Task.ID, out.Task.Name)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed task #%d from My Day: %s\n", out.Task.ID, out.Task.Name)
			}
			return nil
		},
	}
}

// newDoneCommand creates the done command for completing tasks.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Long: `Mark a pending task as completed.

The time from creation to completion is recorded as the task's actual
duration and feeds the next 'weekplan retrain'.

Examples:
  weekplan done 3
  weekplan done "#3"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			took := "-"
			if out.Task.ActualTimeTakenMin != nil {
				took = (time.Duration(*out.Task.ActualTimeTakenMin) * time.Minute).String()
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task #%d: %s (took %s)\n", out.Task.ID, out.Task.Name, took)
			return nil
		},
	}
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task from the store.

Examples:
  weekplan rm 1
  weekplan rm "#1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d: %s\n", out.Task.ID, out.Task.Name)
			return nil
		},
	}
}

// newImportCommand creates the import command for bulk task creation.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from a YAML file",
		Long: `Create several tasks at once from a YAML file ("-" reads stdin).

Every entry is validated before any task is created.

File format:
  tasks:
    - name: Write design doc
      minutes: 120
      due: 2024-01-12 18:00
      priority: High
    - name: Reply to emails

Examples:
  weekplan import week.yaml
  weekplan import week.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, task := range out.Tasks {
				if dryRun {
					_, _ = fmt.Fprintf(w, "Would create: %s (%d min)\n", task.Name, task.EffectiveMinutes())
				} else {
					_, _ = fmt.Fprintf(w, "Created task #%d: %s\n", task.ID, task.Name)
				}
			}
			if dryRun {
				_, _ = fmt.Fprintf(w, "\n%d task(s) would be created\n", len(out.Tasks))
			} else {
				_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and preview without creating tasks")

	return cmd
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// parseTaskID parses a task ID from string (supports "1" or "#1" format).
func parseTaskID(s string) (int, error) {
	s = strings.TrimPrefix(s, "#")
	var id int
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("task ID must be positive")
	}
	return id, nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase"
)

// newScheduleCommand creates the schedule command.
func newScheduleCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Place pending tasks into this week",
		Long: `Assign an hour slot of the current week to every pending task that
does not already hold a future slot.

Each task goes, in order of preference, to:
  1. a free slot the learned profile prefers for its kind of work
  2. a free daytime slot (calendar.daytime_start..daytime_end)
  3. any free slot
never past its due date. Tasks with no feasible slot stay unscheduled.

With --json the scheduled tasks (kept and new) are printed as a JSON array;
unscheduled tasks are omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.AllocateScheduleUseCase().Execute(cmd.Context(), usecase.AllocateScheduleInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, out.Scheduled())
			}

			loc, err := c.AppConfig.Location()
			if err != nil {
				return err
			}
			printSchedule(w, out, loc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output scheduled tasks as JSON")

	return cmd
}

func printSchedule(w io.Writer, out *usecase.AllocateScheduleOutput, loc *time.Location) {
	_, _ = fmt.Fprintf(w, "Week of %s\n\n", out.WeekStart.In(loc).Format("Mon Jan 2, 2006"))

	sources := make(map[int]domain.Assignment, len(out.Assignments))
	for _, a := range out.Assignments {
		sources[a.Task.ID] = a
	}

	if len(out.Already)+len(out.Newly) == 0 {
		_, _ = fmt.Fprintln(w, "No pending tasks to schedule.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tSLOT\tKIND\tPLACED\tNAME")
		for _, task := range out.Already {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t-\tkept\t%s\n", task.ID, formatSlotTime(*task.ScheduledTime, loc), task.Name)
		}
		for _, task := range out.Newly {
			a := sources[task.ID]
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", task.ID, formatSlotTime(*task.ScheduledTime, loc), a.Kind, a.Source, task.Name)
		}
		_ = tw.Flush()
	}

	if len(out.Unscheduled) > 0 {
		ids := make([]string, len(out.Unscheduled))
		for i, id := range out.Unscheduled {
			ids[i] = fmt.Sprintf("#%d", id)
		}
		_, _ = fmt.Fprintf(w, "\nNo free slot before the due date: %s\n", strings.Join(ids, ", "))
	}

	_, _ = fmt.Fprintf(w, "\n%d newly scheduled, %d kept, %d unscheduled (run %s)\n",
		len(out.Newly), len(out.Already), len(out.Unscheduled), out.RunID)
}

// newRetrainCommand creates the retrain command.
func newRetrainCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Learn preferred work slots from completed tasks",
		Long: `Cluster the completion times of finished tasks and store the
preferred deep and shallow work slots as the productivity profile.

With too few completed tasks (training.min_completed) the current
profile is kept and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RetrainProfileUseCase().Execute(cmd.Context(), usecase.RetrainProfileInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, out.Message)
			if out.Profile != nil {
				printProfileSlots(w, out.Profile)
			}
			return nil
		},
	}
}

// newInsightsCommand creates the insights command.
func newInsightsCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Describe your dominant completion habit",
		Long: `Summarize when tasks get completed: a per-weekday histogram and a
sentence describing the largest cluster of completion times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.GetInsightsUseCase().Execute(cmd.Context(), usecase.GetInsightsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, out)
			}

			_, _ = fmt.Fprintln(w, out.Insight)
			if out.DailySummary != nil {
				_, _ = fmt.Fprintln(w)
				printHistogram(w, out.DailySummary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// histogramWidth is the bar length of the busiest day.
const histogramWidth = 30

func printHistogram(w io.Writer, s *domain.DailySummary) {
	peak := 0
	for _, n := range s.Counts {
		peak = max(peak, n)
	}
	for i, label := range s.Labels {
		n := s.Counts[i]
		bar := 0
		if peak > 0 {
			bar = n * histogramWidth / peak
		}
		_, _ = fmt.Fprintf(w, "%s %s %d\n", label, strings.Repeat("█", bar), n)
	}
}

// newProfileCommand creates the profile command.
func newProfileCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the learned productivity profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowProfileUseCase().Execute(cmd.Context(), usecase.ShowProfileInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, out.Profile)
			}

			if out.Profile.IsTrained() {
				_, _ = fmt.Fprintf(w, "Last trained: %s\n", out.Profile.LastTrained.Format(time.RFC3339))
			} else {
				_, _ = fmt.Fprintln(w, "Not trained yet (run 'weekplan retrain' after completing some tasks)")
			}
			printProfileSlots(w, out.Profile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the stored profile as JSON")

	return cmd
}

func printProfileSlots(w io.Writer, p *domain.Profile) {
	_, _ = fmt.Fprintf(w, "Deep work slots:    %s\n", joinSlots(p.DeepWorkSlots))
	_, _ = fmt.Fprintf(w, "Shallow work slots: %s\n", joinSlots(p.ShallowWorkSlots))
}

func joinSlots(slots []int) string {
	if len(slots) == 0 {
		return "-"
	}
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = domain.SlotLabel(s)
	}
	return strings.Join(labels, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
)

// newServeCommand creates the serve command that runs the background daemon.
func newServeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduling and retraining in the background",
		Long: `Run weekplan as a long-lived process.

- daemon.schedule_spec (cron, default @hourly) runs the scheduler
- daemon.retrain_spec (cron, default "0 3 * * *") retrains the profile
- the profile file is watched and reloaded when another process retrains
- with daemon.watch_store, changes to the task store trigger the scheduler,
  at most once per daemon.min_interval

Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "weekplan serving from %s (Ctrl-C to stop)\n", c.Config.DataDir)
			return c.Daemon().Run(ctx)
		},
	}
}

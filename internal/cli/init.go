package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Long: `Initialize the weekplan data directory.

This creates:
- the task store (tasks.json, tasks.db or the postgres schema)
- config.toml: commented default configuration
- logs/: directory for log files

Running init again is safe: an existing store and config are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "weekplan already initialized in %s\n", c.Config.DataDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized weekplan in %s\n", c.Config.DataDir)
			}
			if out.ConfigWritten {
				_, _ = fmt.Fprintf(w, "Wrote default config to %s\n", out.ConfigPath)
			}
			return nil
		},
	}
}

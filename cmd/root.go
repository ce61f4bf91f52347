package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/board"
	"github.com/thenoetrevino/kanban/internal/cli/column"
	"github.com/thenoetrevino/kanban/internal/cli/serve"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/cli/task"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/logging"
)

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Kanban - a shared kanban board for the terminal",
	Long: `Kanban keeps a board of tasks in columns on a small server and lets
any number of terminals change it at once. Changes show up immediately
and are rolled back if the server rejects them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cli.CommandError{Code: cli.ExitUsage, Err: err}
	})
}

// setup loads the config and starts logging before any subcommand runs
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &cli.CommandError{Code: cli.ExitUsage, Err: err}
	}

	closer, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	logCloser = closer

	styles.Init(cfg.ColorScheme)
	cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
	return nil
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if logCloser != nil {
		if cerr := logCloser.Close(); cerr != nil {
			slog.Debug("failed to close log file", "error", cerr)
		}
	}
	if err != nil {
		var exitErr *cli.CommandError
		if !errors.As(err, &exitErr) || !exitErr.Reported {
			rootCmd.PrintErrln("Error:", err)
		}
		return cli.ExitCodeFor(err)
	}
	return cli.ExitSuccess
}

package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/models"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task in a column.

Examples:
  # Simple task (human-readable output)
  kanban task create --title="Fix bug"

  # Straight into a column
  kanban task create --title="Fix bug" --status=inprogress

  # Quiet mode for bash capture
  TASK_ID=$(kanban task create --title="Fix bug" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(handler.HandlerFunc(runCreate)),
	}

	cmd.Flags().String("title", "", "Task title (required)")
	cmd.Flags().String("status", models.ColumnTodo, "Column ID or title, any column except done")
	handler.AddOutputFlags(cmd)
	handler.AddRetryFlag(cmd)

	return cmd
}

func runCreate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	title, err := args.ParseString("title")
	if err != nil {
		return nil, err
	}
	retries, err := args.ParseRetries()
	if err != nil {
		return nil, err
	}
	status, err := args.ParseString("status")
	if err != nil {
		return nil, err
	}

	if err := load(ctx, c); err != nil {
		return nil, err
	}
	columnID, err := cli.ResolveColumnID(c.App.Store, status)
	if err != nil {
		return nil, err
	}

	m, err := c.App.Coordinator.CreateTask(ctx, title, columnID)
	if err != nil {
		return nil, err
	}
	return settle(ctx, c, m, retries, "created")
}

package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <column>",
		Short: "Move a task to another column",
		Long: `Move a task to another column, given by ID or title.
Tasks in the done column cannot be moved out.

Examples:
  kanban task move --id=3f2a inprogress
  kanban task move --id=3f2a "In Progress"
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(handler.HandlerFunc(runMove)),
	}

	cmd.Flags().String("id", "", "Task ID or unique prefix (required)")
	handler.AddOutputFlags(cmd)
	handler.AddRetryFlag(cmd)

	return cmd
}

func runMove(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	ref, err := args.ParseString("id")
	if err != nil {
		return nil, err
	}
	retries, err := args.ParseRetries()
	if err != nil {
		return nil, err
	}

	if err := load(ctx, c); err != nil {
		return nil, err
	}
	id, err := cli.ResolveTaskID(c.App.Store, ref)
	if err != nil {
		return nil, err
	}
	dest, err := cli.ResolveColumnID(c.App.Store, args.Arg(0))
	if err != nil {
		return nil, err
	}

	m, err := c.App.Coordinator.MoveTask(ctx, id, dest)
	if err != nil {
		return nil, err
	}
	return settle(ctx, c, m, retries, "moved")
}

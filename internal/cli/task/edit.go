package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// EditCmd returns the task edit subcommand
func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change a task's title",
		Long: `Change a task's title. The ID may be shortened to any unique prefix.

Examples:
  kanban task edit --id=3f2a --title="Fix login bug"
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(handler.HandlerFunc(runEdit)),
	}

	cmd.Flags().String("id", "", "Task ID or unique prefix (required)")
	cmd.Flags().String("title", "", "New title (required)")
	handler.AddOutputFlags(cmd)
	handler.AddRetryFlag(cmd)

	return cmd
}

func runEdit(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	ref, err := args.ParseString("id")
	if err != nil {
		return nil, err
	}
	retries, err := args.ParseRetries()
	if err != nil {
		return nil, err
	}
	title, err := args.ParseString("title")
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

	m, err := c.App.Coordinator.EditTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}
	return settle(ctx, c, m, retries, "updated")
}

package column

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/models"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a column and its tasks",
		Long: `Delete a column by ID or title. Tasks in the column are deleted with it.
The built-in columns (todo, inprogress, done) cannot be deleted.

Examples:
  kanban column delete --id=review
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(handler.HandlerFunc(runDelete)),
	}

	cmd.Flags().String("id", "", "Column ID or title (required)")
	handler.AddOutputFlags(cmd)
	handler.AddRetryFlag(cmd)

	return cmd
}

func runDelete(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	ref, err := args.ParseString("id")
	if err != nil {
		return nil, err
	}
	retries, err := args.ParseRetries()
	if err != nil {
		return nil, err
	}

	if _, err := c.App.Coordinator.Load(ctx); err != nil {
		return nil, err
	}
	id, err := cli.ResolveColumnID(c.App.Store, ref)
	if err != nil {
		return nil, err
	}
	if models.IsFixedColumnID(id) {
		return nil, fmt.Errorf("column %q: %w", id, models.ErrFixedColumn)
	}

	col, _ := c.App.Store.Column(id)
	removed := 0
	for range c.App.Store.TasksInColumn(id) {
		removed++
	}

	m, err := c.App.Coordinator.DeleteColumn(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := cli.Await(ctx, m, retries); err != nil {
		return nil, err
	}
	return Result{Column: col, RemovedTasks: removed, verb: "deleted"}, nil
}

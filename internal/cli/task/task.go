package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/coordinator"
	"github.com/thenoetrevino/kanban/internal/models"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(EditCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// Result is what task commands print
type Result struct {
	models.Task
	verb string
}

// GetID returns the task ID for quiet mode
func (r Result) GetID() string { return r.ID }

// Describe renders the confirmation for human output
func (r Result) Describe() string {
	return fmt.Sprintf("%s\n  ID: %s\n  Column: %s",
		styles.Success(fmt.Sprintf("Task '%s' %s", r.Title, r.verb)), r.ID, r.Status)
}

// load fetches the board so IDs can be resolved and validated locally
func load(ctx context.Context, c *cli.CLI) error {
	_, err := c.App.Coordinator.Load(ctx)
	return err
}

// settle waits for m and returns the task as the store now holds it
func settle(ctx context.Context, c *cli.CLI, m *coordinator.Mutation, retries int, verb string) (Result, error) {
	m, err := cli.Await(ctx, m, retries)
	if err != nil {
		return Result{}, err
	}
	task := m.Task()
	if current, ok := c.App.Store.Task(task.ID); ok {
		task = current
	}
	return Result{Task: task, verb: verb}, nil
}

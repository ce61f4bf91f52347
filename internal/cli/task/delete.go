package task

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task",
		Long: `Delete a task by ID. Asks you to type "delete" unless --confirm is given.

Examples:
  kanban task delete --id=3f2a
  kanban task delete --id=3f2a --confirm=delete --json
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(handler.HandlerFunc(runDelete)),
	}

	cmd.Flags().String("id", "", "Task ID or unique prefix (required)")
	cmd.Flags().String("confirm", "", `Confirmation word ("delete") to skip the prompt`)
	handler.AddOutputFlags(cmd)
	handler.AddRetryFlag(cmd)

	return cmd
}

// DeleteResult is printed after a task is removed
type DeleteResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GetID returns the deleted task's ID for quiet mode
func (r DeleteResult) GetID() string { return r.ID }

// Describe renders the confirmation for human output
func (r DeleteResult) Describe() string {
	return styles.Success(fmt.Sprintf("Task '%s' deleted", r.Title))
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

	if err := load(ctx, c); err != nil {
		return nil, err
	}
	id, err := cli.ResolveTaskID(c.App.Store, ref)
	if err != nil {
		return nil, err
	}
	task, _ := c.App.Store.Task(id)

	confirmation, err := args.ParseStringOptional("confirm")
	if err != nil {
		return nil, err
	}
	if !args.Changed("confirm") {
		confirmation, err = prompt(args.Cmd(), task)
		if err != nil {
			return nil, err
		}
	}

	m, err := c.App.Coordinator.DeleteTask(ctx, id, confirmation)
	if err != nil {
		return nil, err
	}
	if _, err := cli.Await(ctx, m, retries); err != nil {
		return nil, err
	}
	return DeleteResult{ID: id, Title: task.Title}, nil
}

func prompt(cmd *cobra.Command, task models.Task) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Delete task '%s'? Type %q to confirm: ", task.Title, models.DeleteConfirmationWord)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", &models.ValidationError{Field: "confirmation", Err: models.ErrConfirmationMismatch}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

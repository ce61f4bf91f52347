package column

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
)

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new column",
		Long: `Create a new column at the end of the board.
The server derives the column ID from the title.

Examples:
  kanban column create --title="Review"
  kanban column create --title="Blocked" --color="#FF0000" --json

  # Quiet mode for bash capture
  COLUMN_ID=$(kanban column create --title="Review" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(handler.HandlerFunc(runCreate)),
	}

	cmd.Flags().String("title", "", "Column title (required)")
	cmd.Flags().String("color", "", "Column color as #RRGGBB")
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
	color, err := args.ParseColor("color")
	if err != nil {
		return nil, err
	}

	m, err := c.App.Coordinator.CreateColumn(ctx, title, color)
	if err != nil {
		return nil, err
	}
	m, err = cli.Await(ctx, m, retries)
	if err != nil {
		return nil, err
	}
	return Result{Column: m.Column(), verb: "created"}, nil
}

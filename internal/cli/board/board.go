package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/handler"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/models"
)

// ErrWatchUnsupported is returned when the gateway cannot stream changes
var ErrWatchUnsupported = errors.New("gateway does not stream board events")

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board",
		Long: `Show every column with its tasks, newest first.

Examples:
  kanban board
  kanban board --json

  # Redraw whenever anyone changes the board
  kanban board --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return handler.Command(handler.HandlerFunc(runWatch))(cmd, args)
			}
			return handler.Command(handler.HandlerFunc(runShow))(cmd, args)
		},
	}

	cmd.Flags().Bool("watch", false, "Keep running and redraw on every change")
	handler.AddOutputFlags(cmd)

	return cmd
}

func runShow(ctx context.Context, c *cli.CLI, _ *handler.Arguments) (any, error) {
	return current(ctx, c)
}

// runWatch prints the board, then again after every remote change,
// until the context is cancelled
func runWatch(ctx context.Context, c *cli.CLI, args *handler.Arguments) (any, error) {
	source, ok := c.App.Gateway.(events.EventSource)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	jsonOutput, quietMode, err := args.OutputFormats()
	if err != nil {
		return nil, err
	}
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	ch, unsubscribe, err := source.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	defer unsubscribe()

	b, err := current(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := formatter.Success(b); err != nil {
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case event, ok := <-ch:
			if !ok {
				return nil, nil
			}
			if !event.IsBoardChange() {
				continue
			}
			b, err := current(ctx, c)
			if err != nil {
				slog.Warn("reload after board event failed", "error", err)
				continue
			}
			if err := formatter.Success(b); err != nil {
				return nil, err
			}
		}
	}
}

// current loads the board and returns the store's view of it
func current(ctx context.Context, c *cli.CLI) (models.Board, error) {
	if _, err := c.App.Coordinator.Load(ctx); err != nil {
		return models.Board{}, err
	}
	return c.App.Store.Snapshot().Board(), nil
}

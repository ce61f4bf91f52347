// Package handler provides command execution abstraction to reduce boilerplate
package handler

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli"
)

// Handler defines the interface for command execution
type Handler interface {
	// Execute runs the command against the CLI context and parsed arguments
	Execute(ctx context.Context, c *cli.CLI, args *Arguments) (any, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, c *cli.CLI, args *Arguments) (any, error)

// Execute calls f
func (f HandlerFunc) Execute(ctx context.Context, c *cli.CLI, args *Arguments) (any, error) {
	return f(ctx, c, args)
}

// Arguments captures positional arguments and gives access to flags
type Arguments struct {
	*FlagParser
	Args []string
}

// Arg returns the positional argument at i, or "" when absent
func (a *Arguments) Arg(i int) string {
	if i < len(a.Args) {
		return a.Args[i]
	}
	return ""
}

// AddOutputFlags registers the agent-friendly flags every command carries
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// AddRetryFlag adds --retry to commands that change the board
func AddRetryFlag(cmd *cobra.Command) {
	cmd.Flags().Int("retry", 0, "Resubmit up to N times if the server cannot be reached")
}

// Command wraps common command execution logic.
// Returns a cobra RunE compatible function
func Command(h Handler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		parser := NewFlagParser(cmd)
		jsonOutput, quietMode, err := parser.OutputFormats()
		if err != nil {
			return err
		}
		formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

		c, err := cli.FromContext(ctx)
		if err != nil {
			if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
				slog.Error("failed to format error", "error", fmtErr)
			}
			return &cli.CommandError{Code: cli.ExitError, Err: err, Reported: true}
		}
		defer func() {
			if err := c.Close(); err != nil {
				slog.Error("failed to close CLI", "error", err)
			}
		}()

		result, err := h.Execute(ctx, c, &Arguments{FlagParser: parser, Args: args})
		if err != nil {
			slog.Debug("command failed", "command", cmd.CommandPath(), "error", err)
			return cli.Fail(formatter, err)
		}

		if result == nil {
			return nil
		}

		// Common output formatting
		return formatter.Success(result)
	}
}

// Package cli runs CLI commands against a live test server.
// It is separate from testutil to avoid import cycles with internal/cli.
package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/app"
	kcli "github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/testutil"
)

// Env is a running server plus the config pointing at it
type Env struct {
	Config  *config.Config
	Backend *app.Backend
}

// SetupCLITest starts a board server for CLI tests
func SetupCLITest(t *testing.T) *Env {
	t.Helper()
	cfg, backend := testutil.SetupServer(t)
	return &Env{Config: cfg, Backend: backend}
}

// NewApp returns a fresh client App, as a new CLI process would have
func (e *Env) NewApp(t *testing.T) *app.App {
	t.Helper()
	return testutil.NewApp(t, e.Config)
}

// ExecuteCLICommand executes a CLI command with a fresh client App
func (e *Env) ExecuteCLICommand(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	return e.ExecuteWithInput(t, cmd, args, "")
}

// ExecuteWithInput executes a CLI command with stdin set to input
func (e *Env) ExecuteWithInput(t *testing.T, cmd *cobra.Command, args []string, input string) (string, error) {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), e.NewApp(t), e.Config, cmd, args, strings.NewReader(input))
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cfg *config.Config, cmd *cobra.Command, args []string, stdin io.Reader) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	ctx = kcli.WithConfig(kcli.WithApp(ctx, testApp), cfg)

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetErr(io.Discard)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctx)
	})

	return output, executeErr
}

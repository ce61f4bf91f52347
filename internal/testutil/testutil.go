// Package testutil holds helpers shared by package tests
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/config"
)

// QuietLogger discards everything
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupServer runs a board server on a temporary SQLite file behind
// httptest and returns a config whose client points at it
func SetupServer(t *testing.T) (*config.Config, *app.Backend) {
	t.Helper()

	cfg := config.Default()
	cfg.Server.DBPath = filepath.Join(t.TempDir(), "kanban.db")
	cfg.Client.Timeout = 5 * time.Second

	backend, err := app.NewBackend(context.Background(), cfg, QuietLogger())
	if err != nil {
		t.Fatalf("Failed to start backend: %v", err)
	}
	ts := httptest.NewServer(backend.Server.Handler())
	t.Cleanup(func() {
		// end open event streams so the test server can close
		backend.Broker.Close()
		ts.Close()
		_ = backend.Close()
	})

	cfg.Client.APIURL = ts.URL
	return cfg, backend
}

// NewApp creates a client App for cfg
func NewApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()

	a, err := app.New(cfg, app.WithLogger(QuietLogger()))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	return a
}

// CaptureOutput captures stdout during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	// Save original stdout
	oldStdout := os.Stdout

	// Create pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	// Replace stdout with pipe writer
	os.Stdout = w

	// Channel to collect output
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	// Execute function
	fn()

	// Close writer and restore stdout
	_ = w.Close()
	os.Stdout = oldStdout

	// Get captured output
	return <-outC
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

package serve

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/cli"
)

// ServeCmd returns the serve command, which runs the board server in
// the foreground
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server",
		Long: `Run the board server backed by SQLite, with an optional Redis cache.

Examples:
  kanban serve
  kanban serve --addr=:9090 --db=/tmp/board.db
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.listen_addr)")
	cmd.Flags().String("db", "", "SQLite database path (overrides server.db_path)")
	cmd.Flags().String("redis", "", "Redis URL for the listing cache (overrides server.redis_url)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := cli.ConfigFromContext(ctx)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Server.DBPath = db
	}
	if redisURL, _ := cmd.Flags().GetString("redis"); redisURL != "" {
		cfg.Server.RedisURL = redisURL
	}

	logger := slog.Default()
	backend, err := app.NewBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("failed to close backend", "error", err)
		}
	}()

	cmd.Printf("Board server listening on %s (database %s)\n", cfg.Server.ListenAddr, cfg.Server.DBPath)
	return backend.Run(ctx, cfg.Server.ListenAddr)
}

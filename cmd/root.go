// Package cmd defines the CLI commands for the graph explorer binary.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/config"
	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/logging"
	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/store/postgres"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tvgraph",
		Short: "Explore the network of TV shows and their writers",
		Long: `tvgraph builds a bipartite graph of TV shows and the writers
credited on them by crawling IMDB outward from what is already stored,
then serves the result as JSON.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; env vars with TVGRAPH_ prefix also apply)")

	cmd.AddCommand(newExpandCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEnrichCmd())

	return cmd
}

// Execute is the main entry point. The context it installs is canceled
// on SIGINT/SIGTERM so long crawls shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the global logger. Every
// subcommand calls this first.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

// openStore connects the Postgres pool and applies migrations.
func openStore(ctx context.Context, cfg config.Config) (*postgres.Store, error) {
	store, err := postgres.NewStore(ctx, postgres.StoreConfig{
		DSN:             cfg.DB.DSN,
		MaxConns:        int32(cfg.DB.MaxConns),
		MinConns:        int32(cfg.DB.MinConns),
		MaxConnLifetime: cfg.ConnLifetime(),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store, nil
}

func syncLogger(logger *zap.Logger) {
	// Sync to a terminal fails on some platforms; nothing useful to do.
	_ = logger.Sync()
}

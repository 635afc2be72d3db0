// Package cmd holds the groovity command line: serve, migrate and seed.
package cmd

import (
	"context"
	"os"

	"github.com/GrooVITy-Community/groovity-backend/config"
	"github.com/GrooVITy-Community/groovity-backend/internal/logger"
	"github.com/GrooVITy-Community/groovity-backend/pkg/database"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "groovity",
		Short:         "Event registration and beat marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	serve := newServeCmd(opts)
	root.AddCommand(serve, newMigrateCmd(opts), newSeedCmd(opts))
	// Running the binary without a subcommand serves.
	root.RunE = serve.RunE
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		l := logger.New("error", "json")
		l.Error().Err(err).Msg("groovity exited with error")
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by all commands.
func (o *rootOptions) bootstrap() (*config.Config, *zerolog.Logger) {
	cfg := config.Load(o.envFile)
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	return cfg, &log
}

// openStore binds the backend and brings its tables up to date.
func openStore(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (*database.Handle, error) {
	h, err := database.Open(ctx, database.Config{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}, log)
	if err != nil {
		return nil, err
	}
	if err := h.Migrate(ctx); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}

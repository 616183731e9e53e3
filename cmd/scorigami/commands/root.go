package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/database"
	"vct-scorigami/internal/logger"
	"vct-scorigami/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "scorigami",
	Short: "scorigami scrapes VCT match statistics and maintains the scorigami record store.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap builds the shared dependency set for one-shot commands.
// The caller owns the returned store.
func bootstrap() (*config.Config, zerolog.Logger, storage.Store, error) {
	log := logger.New()

	cfg, err := config.Load(log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("load config: %w", err)
	}
	log = logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	db, err := database.New(cfg, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("open database: %w", err)
	}

	return cfg, log, storage.New(db, cfg, log), nil
}

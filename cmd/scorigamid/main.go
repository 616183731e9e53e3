package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/constants"
	fxmodules "vct-scorigami/internal/fx"
	"vct-scorigami/internal/middleware"
	"vct-scorigami/internal/server"
	"vct-scorigami/internal/service"
	"vct-scorigami/internal/storage"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runDaemon),
	).Run()
}

func runDaemon(
	lc fx.Lifecycle,
	api *server.APIServer,
	updater *service.UpdateService,
	cfg *config.Config,
	store storage.Store,
	logger zerolog.Logger,
) {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	handler := middleware.RequestID(logger)(c.Handler(api.Routes()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handler,
	}

	updaterCtx, stopUpdater := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			go runUpdateLoop(updaterCtx, updater, cfg.UpdateInterval, logger)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			stopUpdater()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing store")
			}
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}

// runUpdateLoop periodically captures new matches from the active
// tournaments. A failed cycle is logged and retried at the next tick;
// ingestion dedup keeps overlapping data harmless.
func runUpdateLoop(ctx context.Context, updater *service.UpdateService, interval time.Duration, logger zerolog.Logger) {
	logger.Info().Dur("interval", interval).Msg("update loop starting")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("update loop stopped")
			return
		case <-ticker.C:
			if _, err := updater.RunOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("update cycle failed")
			}
		}
	}
}

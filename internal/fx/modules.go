package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/database"
	"vct-scorigami/internal/logger"
	"vct-scorigami/internal/server"
	"vct-scorigami/internal/service"
	"vct-scorigami/internal/storage"
	"vct-scorigami/internal/vlr"
)

func ProvideVLRClient(log zerolog.Logger) *vlr.Client {
	return vlr.NewClient(log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(storage.New),
	// source site client
	fx.Provide(ProvideVLRClient),
	// svc
	fx.Provide(service.NewPipelineService),
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewUpdateService),
	// api
	fx.Provide(server.NewAPIServer),
)

package service

import (
	"context"

	"github.com/rs/zerolog"

	"vct-scorigami/internal/config"
	"vct-scorigami/internal/constants"
	"vct-scorigami/internal/domain"
	"vct-scorigami/internal/vlr"
)

// UpdateService is the incremental capture path: it re-checks the
// currently active tournaments for matches played since the last run,
// relying on ingestion dedup to keep repeated runs idempotent.
type UpdateService struct {
	pipeline *PipelineService
	ingest   *IngestService
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewUpdateService(pipeline *PipelineService, ingest *IngestService, cfg *config.Config, logger zerolog.Logger) *UpdateService {
	return &UpdateService{pipeline: pipeline, ingest: ingest, cfg: cfg, logger: logger}
}

// RunOnce scrapes the active tournaments and ingests whatever is new.
func (s *UpdateService) RunOnce(ctx context.Context) (domain.IngestReport, error) {
	ids := s.cfg.ActiveTournaments
	if len(ids) == 0 {
		ids = vlr.KnownTournamentIDs()
	}

	s.logger.Info().Int("tournaments", len(ids)).Msg("update started")

	records, _, err := s.pipeline.RunAll(ctx, ids, RunOptions{
		Delay:    constants.DefaultUpdateDelay,
		SkipLive: true,
	})
	if err != nil {
		return domain.IngestReport{}, err
	}

	if len(records) == 0 {
		s.logger.Info().Msg("no records scraped, nothing to ingest")
		return domain.IngestReport{}, nil
	}

	report, err := s.ingest.AddBatch(ctx, records)
	if err != nil {
		return report, err
	}

	s.logger.Info().
		Int("new_records", report.Inserted).
		Int("duplicates", report.Skipped).
		Msg("update complete")
	return report, nil
}

package service

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"vct-scorigami/internal/domain"
	"vct-scorigami/internal/storage"
)

// IngestService merges scraped record batches into the store. Dedup is
// insert-or-skip on the natural key: the first stored version of a
// record wins, later scrapes of the same match never overwrite it.
type IngestService struct {
	store  storage.Store
	logger zerolog.Logger
}

func NewIngestService(store storage.Store, logger zerolog.Logger) *IngestService {
	return &IngestService{store: store, logger: logger}
}

// AddBatch persists records that are not already stored. Per-record
// storage failures are counted and logged; the batch only fails as a
// whole when not a single record could be checked or written.
func (s *IngestService) AddBatch(ctx context.Context, records []domain.MatchRecord) (domain.IngestReport, error) {
	batchID, err := gonanoid.New()
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("generate batch id: %w", err)
	}
	report := domain.IngestReport{BatchID: batchID}

	logger := s.logger.With().Str("batch_id", batchID).Logger()

	for _, record := range records {
		exists, err := s.store.Exists(ctx, storage.KeyFor(record))
		if err != nil {
			report.Failed++
			logger.Warn().Err(err).
				Str("player", record.Player).
				Str("map", record.Map).
				Msg("duplicate lookup failed")
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		if err := s.store.Insert(ctx, record); err != nil {
			report.Failed++
			logger.Warn().Err(err).
				Str("player", record.Player).
				Str("map", record.Map).
				Str("match_id", record.MatchID).
				Msg("insert failed")
			continue
		}
		report.Inserted++
	}

	if len(records) > 0 && report.Failed == len(records) {
		return report, fmt.Errorf("storage rejected all %d records of batch %s", len(records), batchID)
	}

	balance, err := s.VerifyBalance(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("balance check failed")
	} else {
		report.KDBalance = balance
	}

	logger.Info().
		Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("kd_balance", report.KDBalance).
		Msg("batch ingested")
	return report, nil
}

// VerifyBalance computes total kills minus total deaths across the
// store. Kills and deaths are symmetric in this sport, so any nonzero
// value means records are missing or mis-parsed; it is surfaced for
// operator review, never enforced.
func (s *IngestService) VerifyBalance(ctx context.Context) (int, error) {
	balance, err := s.store.KillDeathBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("kill/death balance: %w", err)
	}
	if balance != 0 {
		s.logger.Warn().
			Int("kd_balance", balance).
			Msg("kill/death balance is nonzero, record set incomplete or mis-parsed")
	}
	return balance, nil
}

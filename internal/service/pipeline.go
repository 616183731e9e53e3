package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vct-scorigami/internal/domain"
	"vct-scorigami/internal/vlr"
)

// PipelineService runs Discovery -> Transport -> Extractor for whole
// tournaments. Pages are processed strictly one at a time with a
// courtesy delay between fetches; the source watches for burst
// traffic.
type PipelineService struct {
	client *vlr.Client
	logger zerolog.Logger
}

func NewPipelineService(client *vlr.Client, logger zerolog.Logger) *PipelineService {
	return &PipelineService{client: client, logger: logger}
}

type RunOptions struct {
	// Delay is slept between page fetches.
	Delay time.Duration
	// SkipLive drops pages of matches that are still in progress,
	// used by the incremental updater.
	SkipLive bool
}

// RunTournament scrapes every match page of one tournament. Page-level
// failures are counted and skipped, never fatal; the only error
// returned is context cancellation.
func (s *PipelineService) RunTournament(ctx context.Context, tournamentID int, opts RunOptions) ([]domain.MatchRecord, domain.RunReport, error) {
	report := domain.RunReport{TournamentID: tournamentID}

	urls, err := s.client.MatchPageURLs(ctx, tournamentID)
	if err != nil {
		s.logger.Warn().Err(err).Int("tournament_id", tournamentID).Msg("match page discovery failed")
		return nil, report, nil
	}
	report.Pages = len(urls)

	if len(urls) == 0 {
		s.logger.Info().Int("tournament_id", tournamentID).Msg("no matches for tournament")
		return nil, report, nil
	}

	var records []domain.MatchRecord
	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return records, report, err
		}

		s.logger.Info().
			Int("tournament_id", tournamentID).
			Int("page", i+1).
			Int("pages", len(urls)).
			Str("url", pageURL).
			Msg("processing match page")

		body, err := s.client.FetchPage(ctx, pageURL)
		if err != nil {
			report.Failed++
			s.sleep(ctx, opts.Delay)
			continue
		}
		report.Fetched++

		if opts.SkipLive && !vlr.IsMatchComplete(body) {
			report.Skipped++
			s.logger.Info().Str("url", pageURL).Msg("match not complete yet, skipping")
			s.sleep(ctx, opts.Delay)
			continue
		}

		page, err := vlr.ParseMatchPage(body, pageURL)
		if err != nil {
			report.Failed++
			s.logger.Warn().Err(err).Str("url", pageURL).Msg("match page parse failed")
			s.sleep(ctx, opts.Delay)
			continue
		}

		for _, record := range page.Records {
			record.TournamentID = tournamentID
			records = append(records, record)
		}

		s.sleep(ctx, opts.Delay)
	}

	report.Records = len(records)
	s.logger.Info().
		Int("tournament_id", tournamentID).
		Int("records", report.Records).
		Int("failed_pages", report.Failed).
		Msg("tournament scraped")
	return records, report, nil
}

// RunAll scrapes a batch of tournaments sequentially, aggregating
// records and per-tournament reports.
func (s *PipelineService) RunAll(ctx context.Context, tournamentIDs []int, opts RunOptions) ([]domain.MatchRecord, []domain.RunReport, error) {
	var all []domain.MatchRecord
	reports := make([]domain.RunReport, 0, len(tournamentIDs))

	for i, id := range tournamentIDs {
		if err := ctx.Err(); err != nil {
			return all, reports, err
		}

		s.logger.Info().
			Int("tournament_id", id).
			Int("position", i+1).
			Int("total", len(tournamentIDs)).
			Msg("scraping tournament")

		records, report, err := s.RunTournament(ctx, id, opts)
		if err != nil {
			return all, reports, err
		}

		var kills, deaths int
		for _, r := range records {
			kills += r.Kills
			deaths += r.Deaths
		}
		s.logger.Info().
			Int("tournament_id", id).
			Int("records", len(records)).
			Int("kd_balance", kills-deaths).
			Msg("tournament summary")

		all = append(all, records...)
		reports = append(reports, report)
	}

	return all, reports, nil
}

func (s *PipelineService) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

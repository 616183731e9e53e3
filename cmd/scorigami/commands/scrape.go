package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vct-scorigami/internal/service"
	"vct-scorigami/internal/vlr"
)

var (
	scrapeTournaments []int
	scrapeAll         bool
	scrapeDelay       time.Duration
	scrapeDryRun      bool
)

func init() {
	scrapeCmd.Flags().IntSliceVarP(&scrapeTournaments, "tournament", "t", nil, "tournament id(s) to scrape")
	scrapeCmd.Flags().BoolVarP(&scrapeAll, "all", "a", false, "scrape all known tier 1 tournaments")
	scrapeCmd.Flags().DurationVarP(&scrapeDelay, "delay", "d", time.Second, "delay between page fetches")
	scrapeCmd.Flags().BoolVarP(&scrapeDryRun, "dry-run", "n", false, "fetch and parse without persisting")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--tournament id]... [--all] [--delay 1s] [--dry-run]",
	Short: "Scrapes tournaments and ingests the records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scrapeAll && len(scrapeTournaments) == 0 {
			return fmt.Errorf("nothing to do: pass --tournament or --all")
		}

		cfg, log, store, err := bootstrap()
		if err != nil {
			return err
		}
		defer store.Close()

		delay := cfg.ScrapeDelay
		if cmd.Flags().Changed("delay") {
			delay = scrapeDelay
		}

		ctx := cmd.Context()

		before, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}
		log.Info().Int("records", before.TotalRecords).Msg("store before run")

		ids := scrapeTournaments
		if scrapeAll {
			ids = vlr.KnownTournamentIDs()
		}

		pipeline := service.NewPipelineService(vlr.NewClient(log), log)
		records, reports, err := pipeline.RunAll(ctx, ids, service.RunOptions{Delay: delay})
		if err != nil {
			return err
		}

		for _, r := range reports {
			fmt.Printf("tournament %d: %d pages, %d fetched, %d failed, %d records\n",
				r.TournamentID, r.Pages, r.Fetched, r.Failed, r.Records)
		}

		if scrapeDryRun {
			fmt.Printf("dry run: would insert %d records\n", len(records))
			return nil
		}

		ingest := service.NewIngestService(store, log)
		report, err := ingest.AddBatch(ctx, records)
		if err != nil {
			return err
		}

		after, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		fmt.Printf("inserted %d, skipped %d, failed %d (kd balance %d)\n",
			report.Inserted, report.Skipped, report.Failed, report.KDBalance)
		fmt.Printf("store: %d -> %d records\n", before.TotalRecords, after.TotalRecords)
		return nil
	},
}

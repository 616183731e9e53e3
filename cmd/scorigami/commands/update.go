package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vct-scorigami/internal/service"
	"vct-scorigami/internal/vlr"
)

var (
	updateTournaments []int
	updateAll         bool
)

func init() {
	updateCmd.Flags().IntSliceVarP(&updateTournaments, "tournament", "t", nil, "specific tournament id(s) to update")
	updateCmd.Flags().BoolVarP(&updateAll, "all", "a", false, "update all known tier 1 tournaments")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [--tournament id]... [--all]",
	Short: "Incrementally captures new matches from active tournaments.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, store, err := bootstrap()
		if err != nil {
			return err
		}
		defer store.Close()

		switch {
		case updateAll:
			cfg.ActiveTournaments = vlr.KnownTournamentIDs()
		case len(updateTournaments) > 0:
			cfg.ActiveTournaments = updateTournaments
		}

		client := vlr.NewClient(log)
		pipeline := service.NewPipelineService(client, log)
		ingest := service.NewIngestService(store, log)
		updater := service.NewUpdateService(pipeline, ingest, cfg, log)

		report, err := updater.RunOnce(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("new records: %d, duplicates skipped: %d, failed: %d\n",
			report.Inserted, report.Skipped, report.Failed)
		return nil
	},
}

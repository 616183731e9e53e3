package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vct-scorigami/internal/logger"
	"vct-scorigami/internal/vlr"
)

func init() {
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(discoverCmd)
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Lists the curated tier 1 tournament registry.",
	Run: func(cmd *cobra.Command, args []string) {
		known := vlr.KnownTournaments()
		for _, t := range known {
			fmt.Printf("  %d: %s\n", t.ID, t.Name)
		}
		fmt.Printf("total: %d tournaments\n", len(known))
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discovers tier 1 tournaments from the franchise-era year pages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		client := vlr.NewClient(log)

		found, err := client.DiscoverTournaments(cmd.Context())
		if err != nil {
			return err
		}

		for _, t := range found {
			fmt.Printf("  %d: %s\n", t.ID, t.Name)
		}
		fmt.Printf("discovered: %d tournaments\n", len(found))
		return nil
	},
}

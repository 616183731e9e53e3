package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints record store statistics and the kill/death balance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, store, err := bootstrap()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		fmt.Printf("total records:      %d\n", stats.TotalRecords)
		fmt.Printf("unique players:     %d\n", stats.UniquePlayers)
		fmt.Printf("unique maps:        %d\n", stats.UniqueMaps)
		fmt.Printf("unique tournaments: %d\n", stats.UniqueTournaments)
		fmt.Printf("total kills:        %d\n", stats.TotalKills)
		fmt.Printf("total deaths:       %d\n", stats.TotalDeaths)
		fmt.Printf("kd balance:         %d (0 means consistent)\n", stats.KDBalance())
		return nil
	},
}

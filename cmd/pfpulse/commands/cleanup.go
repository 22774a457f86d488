package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete stale export artifacts, keeping the newest of each kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := svc.CleanupExports()
		if err != nil {
			return err
		}
		for _, path := range deleted {
			fmt.Println(path)
		}
		log.Info().Int("deleted", len(deleted)).Msg("export cleanup done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

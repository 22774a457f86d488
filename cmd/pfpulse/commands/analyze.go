package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := svc.Analyze()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))

		log.Info().
			Int("projects", result.TotalProjects).
			Int("consultants", len(result.Consultants)).
			Msg("analysis complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

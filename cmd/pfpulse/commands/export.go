package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pfpulse/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [report]",
	Short: "Export a report to the export directory",
	Long: `Export one report as CSV or XLSX. Report kinds: consultants,
solutionArchitects, customers, das, combinations, consultantProjects, or
everything for a single multi-section artifact.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := export.ReportEverything
		if len(args) == 1 {
			kind = export.ReportKind(args[0])
		}
		if !kind.Known() {
			return fmt.Errorf("unknown report %q", kind)
		}

		path, err := svc.ExportToDir(kind, exportFormat)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("report exported")
		fmt.Println(path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatCSV, "export format: csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}

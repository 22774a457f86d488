package commands

import (
	"pfpulse/internal/config"
	"pfpulse/internal/logging"
	"pfpulse/internal/service"
	"pfpulse/internal/web"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	svc     *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "pfpulse",
	Short: "pfpulse analyzes project financials workbooks",
	Long: `pfpulse reads a project financials workbook and produces consultant,
solution architect, and customer performance reports, delivery accuracy
scores, risk-bucketed customer views, and variance forecasts. Results are
served over an HTTP dashboard, an MCP stdio server, or exported to CSV/XLSX.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		svc = service.New(cfg)

		web.Version, web.Commit, web.BuildDate = Version, Commit, BuildDate

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("pfpulse starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

package commands

import (
	"github.com/spf13/cobra"

	"pfpulse/internal/web"
)

var (
	assetsSrcDir string
	assetsOutDir string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Bundle the dashboard front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		return web.BuildAssets(assetsSrcDir, assetsOutDir)
	},
}

func init() {
	assetsCmd.Flags().StringVar(&assetsSrcDir, "src", "web/src", "front-end source directory")
	assetsCmd.Flags().StringVar(&assetsOutDir, "out", "web/static", "bundle output directory")
	rootCmd.AddCommand(assetsCmd)
}

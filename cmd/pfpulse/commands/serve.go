package commands

import (
	"context"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pfpulse/internal/web"
)

var (
	serveDev    bool
	serveOpen   bool
	serveSrcDir string
	serveOutDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveDev {
			if err := web.BuildAssets(serveSrcDir, serveOutDir); err != nil {
				return err
			}
		}

		if serveOpen {
			url := "http://" + cfg.ListenAddr
			go func() {
				// Give the listener a moment to bind.
				time.Sleep(300 * time.Millisecond)
				if err := browser.OpenURL(url); err != nil {
					log.Warn().Err(err).Str("url", url).Msg("could not open browser")
				}
			}()
		}

		server := web.NewServer(svc, serveOutDir)
		return server.Serve(context.Background(), cfg.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "rebuild front-end assets on start")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the dashboard in the default browser")
	serveCmd.Flags().StringVar(&serveSrcDir, "src", "web/src", "front-end source directory")
	serveCmd.Flags().StringVar(&serveOutDir, "static", "web/static", "static asset directory")
	rootCmd.AddCommand(serveCmd)
}

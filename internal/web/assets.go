package web

import (
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

// BuildAssets bundles the dashboard front-end from srcDir into outDir.
// Minified, ES2019, no source maps; the bundle is served as a static file.
func BuildAssets(srcDir, outDir string) error {
	entry := filepath.Join(srcDir, "dashboard.js")

	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entry},
		Outfile:           filepath.Join(outDir, "dashboard.js"),
		Bundle:            true,
		Write:             true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Target:            api.ES2019,
		LogLevel:          api.LogLevelWarning,
	})

	if len(result.Errors) > 0 {
		return fmt.Errorf("bundle %s: %s", entry, result.Errors[0].Text)
	}
	for _, f := range result.OutputFiles {
		log.Debug().Str("file", f.Path).Int("bytes", len(f.Contents)).Msg("asset written")
	}
	log.Info().Str("entry", entry).Str("out", outDir).Msg("assets bundled")
	return nil
}

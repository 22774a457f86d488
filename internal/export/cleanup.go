package export

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// cleanupPatterns are the artifact name patterns subject to retention.
var cleanupPatterns = []string{
	"consultants-*.csv",
	"consultants-*.xlsx",
	"solutionArchitects-*.csv",
	"solutionArchitects-*.xlsx",
	"customers-*.csv",
	"customers-*.xlsx",
	"das-*.csv",
	"das-*.xlsx",
	"combinations-*.csv",
	"combinations-*.xlsx",
	"consultantProjects-*.csv",
	"consultantProjects-*.xlsx",
	"everything-*.csv",
	"everything-*.xlsx",
}

// Cleanup deletes stale export artifacts, keeping only the newest file per
// report pattern. Returns the deleted paths.
func Cleanup(dir string) ([]string, error) {
	var deleted []string

	for _, pattern := range cleanupPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return deleted, err
		}
		if len(matches) <= 1 {
			continue
		}

		// Newest first. The date-stamped names sort chronologically, but
		// mtime also covers same-day re-exports.
		sort.Slice(matches, func(i, j int) bool {
			return modTime(matches[i]).After(modTime(matches[j]))
		})

		for _, path := range matches[1:] {
			if err := os.Remove(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to delete stale export")
				continue
			}
			deleted = append(deleted, path)
		}
	}

	if len(deleted) > 0 {
		log.Info().Int("deleted", len(deleted)).Str("dir", dir).Msg("Export retention cleanup done")
	}
	return deleted, nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

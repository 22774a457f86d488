package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"pfpulse/internal/analysis"
	"pfpulse/internal/export"
)

// Export runs the analysis and serializes one report. Returns the
// deterministic filename, the payload, and its MIME type.
func (s *Service) Export(kind export.ReportKind, format string) (string, []byte, string, error) {
	in, err := s.loadInputs()
	if err != nil {
		return "", nil, "", fmt.Errorf("load analysis inputs: %w", err)
	}
	result := analysis.Analyze(in.rows, analysis.Options{
		Filters:      in.rosters.Filters,
		Disqualified: in.rosters.Disqualified,
		Settings:     in.settings,
	})

	filename := export.Filename(kind, format, s.now())
	switch format {
	case export.FormatCSV:
		var text string
		if kind == export.ReportEverything {
			text = export.CSVEverything(result)
		} else {
			text = export.CSV(kind, result)
		}
		return filename, []byte(text), "text/csv", nil

	case export.FormatXLSX:
		var data []byte
		var err error
		if kind == export.ReportEverything {
			data, err = export.XLSXEverything(result, in.settings.Thresholds)
		} else {
			data, err = export.XLSX(kind, result, in.settings.Thresholds)
		}
		if err != nil {
			return "", nil, "", err
		}
		return filename, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}

	return "", nil, "", fmt.Errorf("unknown export format %q, want csv or xlsx", format)
}

// ExportToDir writes one report artifact into the export directory and
// returns its path.
func (s *Service) ExportToDir(kind export.ReportKind, format string) (string, error) {
	filename, data, _, err := s.Export(kind, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.cfg.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Report exported")
	return path, nil
}

// CleanupExports applies the retention policy to the export directory.
func (s *Service) CleanupExports() ([]string, error) {
	return export.Cleanup(s.cfg.ExportDir)
}

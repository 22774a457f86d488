package financials

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyDateFilter drops closed projects whose end date precedes the cutoff.
// Open, active, and cancelled-free rows always pass, as do closed rows with
// blank or unparseable end dates. Returns the kept rows and the excluded
// count.
func ApplyDateFilter(rows []ProjectRow, cutoff time.Time) ([]ProjectRow, int) {
	kept := make([]ProjectRow, 0, len(rows))
	excluded := 0

	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(row.ProjectStatus)) == "closed" {
			if end, ok := ParseEndDate(row.EndDate); ok && end.Before(cutoff) {
				excluded++
				continue
			}
		}
		kept = append(kept, row)
	}

	if excluded > 0 {
		log.Info().
			Time("cutoff", cutoff).
			Int("excluded", excluded).
			Msg("Date filter excluded closed projects")
	}
	return kept, excluded
}

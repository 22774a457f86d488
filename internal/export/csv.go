package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"pfpulse/internal/analysis"
)

// CSV serializes one report as delimited text with standard quoting.
func CSV(kind ReportKind, result *analysis.Result) string {
	var sb strings.Builder
	writeTable(&sb, buildTable(kind, result))
	return sb.String()
}

// CSVEverything bundles every report into one CSV, separated by section
// banners.
func CSVEverything(result *analysis.Result) string {
	var sb strings.Builder
	for i, t := range buildAllTables(result) {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "=== %s ===\n", t.title)
		writeTable(&sb, t)
	}
	return sb.String()
}

func writeTable(sb *strings.Builder, t table) {
	w := csv.NewWriter(sb)
	w.Write(t.header)
	record := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		w.Write(record)
	}
	w.Flush()
}

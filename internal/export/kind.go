// Package export serializes analysis reports to CSV text and XLSX workbooks
// with deterministic filenames.
package export

import (
	"fmt"
	"time"
)

// ReportKind names one exportable report slice. The set is closed; anything
// else gets the "no data" placeholder rather than an error, so a newer UI
// asking for a report this build does not know stays functional.
type ReportKind string

const (
	ReportConsultants        ReportKind = "consultants"
	ReportArchitects         ReportKind = "solutionArchitects"
	ReportCustomers          ReportKind = "customers"
	ReportDAS                ReportKind = "das"
	ReportCombinations       ReportKind = "combinations"
	ReportConsultantProjects ReportKind = "consultantProjects"

	// ReportEverything bundles every known report into one artifact.
	ReportEverything ReportKind = "everything"
)

// Kinds lists the individual report kinds in their canonical export order.
var Kinds = []ReportKind{
	ReportConsultants,
	ReportArchitects,
	ReportCustomers,
	ReportDAS,
	ReportCombinations,
	ReportConsultantProjects,
}

// Known reports whether the kind maps to a real report slice.
func (k ReportKind) Known() bool {
	if k == ReportEverything {
		return true
	}
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Filename builds the deterministic artifact name {report}-{YYYY-MM-DD}.{ext}.
func Filename(kind ReportKind, format string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", kind, now.Format("2006-01-02"), format)
}

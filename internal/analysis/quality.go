package analysis

import (
	"sort"
	"strings"
	"time"

	"pfpulse/internal/config"
	"pfpulse/internal/financials"
)

// QualityIssue flags one row the bookkeeping should look at.
type QualityIssue struct {
	JobNumber     string `json:"jobNumber"`
	Customer      string `json:"customer,omitempty"`
	JobStatus     string `json:"jobStatus,omitempty"`
	ProjectStatus string `json:"projectStatus,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	Problem       string `json:"problem"`
}

// QualityReport is the data-quality check over the full row set.
type QualityReport struct {
	RowsChecked int `json:"rowsChecked"`
	// Inconsistent rows are open on the accounting side but closed on the
	// project side, with an end date old enough that the gap is not just
	// paperwork lag.
	Inconsistent []QualityIssue `json:"inconsistent,omitempty"`
	// MissingStatus rows carry a blank or N/A project status.
	MissingStatus []QualityIssue `json:"missingStatus,omitempty"`
}

// CheckQuality flags stale open/closed mismatches and rows with no usable
// project status. Purely advisory; nothing here feeds the metrics.
func CheckQuality(rows []financials.ProjectRow, settings config.QualityCheckSettings, now time.Time) QualityReport {
	oldDays := settings.OldProjectDays
	if oldDays <= 0 {
		oldDays = 730
	}
	staleCutoff := now.AddDate(0, 0, -oldDays)

	report := QualityReport{RowsChecked: len(rows)}

	for _, row := range rows {
		projectStatus := strings.ToLower(strings.TrimSpace(row.ProjectStatus))
		jobStatus := strings.ToLower(strings.TrimSpace(row.JobStatus))

		if jobStatus == "open" && strings.Contains(projectStatus, "closed") {
			if end, ok := financials.ParseEndDate(row.EndDate); ok && end.Before(staleCutoff) {
				report.Inconsistent = append(report.Inconsistent, QualityIssue{
					JobNumber:     row.JobNumber,
					Customer:      row.Customer,
					JobStatus:     row.JobStatus,
					ProjectStatus: row.ProjectStatus,
					EndDate:       row.EndDate,
					Problem:       "job open but project closed beyond the stale window",
				})
			}
		}

		if settings.IncludeNAStatus && isMissingStatus(row.ProjectStatus) {
			report.MissingStatus = append(report.MissingStatus, QualityIssue{
				JobNumber: row.JobNumber,
				Customer:  row.Customer,
				JobStatus: row.JobStatus,
				EndDate:   row.EndDate,
				Problem:   "project status blank or N/A",
			})
		}
	}

	sortQualityIssues(report.Inconsistent)
	sortQualityIssues(report.MissingStatus)
	return report
}

func isMissingStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "", "N/A", "NA", "NONE":
		return true
	}
	return false
}

func sortQualityIssues(issues []QualityIssue) {
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].JobNumber < issues[j].JobNumber
	})
}

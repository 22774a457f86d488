package financials

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// CombineDuplicateJobs merges rows sharing a job number into one row each.
// The same project can appear multiple times in an export (phases, re-runs,
// data entry). Numeric fields are summed; the multi-value people fields
// become the comma-joined set of distinct non-null entries; everything else
// keeps the first row's value. First-seen order is preserved.
func CombineDuplicateJobs(rows []ProjectRow) []ProjectRow {
	byJob := make(map[string][]ProjectRow, len(rows))
	var order []string
	for _, row := range rows {
		if _, seen := byJob[row.JobNumber]; !seen {
			order = append(order, row.JobNumber)
		}
		byJob[row.JobNumber] = append(byJob[row.JobNumber], row)
	}

	combined := make([]ProjectRow, 0, len(order))
	merged := 0
	for _, job := range order {
		group := byJob[job]
		if len(group) == 1 {
			combined = append(combined, group[0])
			continue
		}

		merged++
		out := group[0]
		out.BudgetHours = 0
		out.ActualHours = 0
		for _, row := range group {
			out.BudgetHours += row.BudgetHours
			out.ActualHours += row.ActualHours
		}
		out.ResourcesEngaged = mergePeopleField(group, func(r ProjectRow) string { return r.ResourcesEngaged })
		out.SolutionArchitect = mergePeopleField(group, func(r ProjectRow) string { return r.SolutionArchitect })
		combined = append(combined, out)
	}

	if merged > 0 {
		log.Debug().Int("jobs", merged).Msg("Combined duplicate job rows")
	}
	return combined
}

// mergePeopleField joins the distinct non-null values of a multi-value
// field across a duplicate group, preserving first appearance order.
func mergePeopleField(group []ProjectRow, field func(ProjectRow) string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, row := range group {
		v := strings.TrimSpace(field(row))
		if isNAText(v) {
			continue
		}
		if !seen[v] {
			seen[v] = true
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

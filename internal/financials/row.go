package financials

import (
	"strconv"
	"strings"
	"time"
)

// ProjectRow is one project record from the financials workbook, after the
// header row has been located and stripped. Rows are immutable inputs; the
// analysis engine never mutates them.
type ProjectRow struct {
	// JobNumber is the project key (e.g., J10412). Exact-match identity for
	// exclusions and deduplication.
	JobNumber string `json:"jobNumber"`
	// JobDescription is free text, may be empty.
	JobDescription string `json:"jobDescription,omitempty"`
	// Customer is the client name, may be empty.
	Customer string `json:"customer,omitempty"`
	// BudgetHours is the budgeted effort. Non-numeric cells coerce to 0,
	// which excludes the row from every ratio-dependent aggregation.
	BudgetHours float64 `json:"budgetHours"`
	// ActualHours is the total hours posted against the project.
	ActualHours float64 `json:"actualHours"`
	// ResourcesEngaged is the raw multi-value consultant field (comma,
	// semicolon, pipe, or newline separated).
	ResourcesEngaged string `json:"resourcesEngaged,omitempty"`
	// SolutionArchitect is the raw multi-value SA field.
	SolutionArchitect string `json:"solutionArchitect,omitempty"`
	// ProjectStatus is free text (Open, Closed, Cancelled...).
	ProjectStatus string `json:"projectStatus,omitempty"`
	// JobStatus is the accounting-side status, tracked separately from
	// ProjectStatus and compared against it in the quality check.
	JobStatus string `json:"jobStatus,omitempty"`
	// Completion is the reported project-complete fraction in [0, 1].
	Completion float64 `json:"completion"`
	// EndDate is the raw end-date cell, kept as text since the workbook
	// mixes several layouts. Parse with ParseEndDate.
	EndDate string `json:"endDate,omitempty"`
}

// ParseNumber coerces a workbook cell to a float. Currency symbols, percent
// signs, thousands separators and surrounding whitespace are stripped;
// blank, N/A and non-numeric cells coerce to 0 (never an error).
func ParseNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	if u := strings.ToUpper(s); u == "N/A" || u == "NA" || u == "NONE" || u == "NAN" {
		return 0
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	// Accounting exports wrap negatives in parentheses.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCompletion coerces a completion cell to a fraction in [0, 1].
// Values above 1 are treated as percentages and divided by 100.
func ParseCompletion(cell string) float64 {
	v := ParseNumber(cell)
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// endDateLayouts are the formats observed in exported workbooks, tried in
// order. Any time-of-day suffix is stripped before parsing.
var endDateLayouts = []string{
	"1/2/06",
	"1/2/2006",
	"2006-01-02",
	"2/1/2006",
}

// ParseEndDate parses a raw end-date cell. The bool is false when the cell
// is blank or matches none of the known layouts.
func ParseEndDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isCancelledStatus reports whether a status marks the project cancelled.
func isCancelledStatus(status string) bool {
	return strings.Contains(strings.ToLower(status), "cancel")
}

// isNAText reports whether a raw cell is a textual null.
func isNAText(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "N/A", "NA", "NONE", "NAN":
		return true
	}
	return false
}

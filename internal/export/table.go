package export

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"pfpulse/internal/analysis"
)

// table is the intermediate tabular form shared by the CSV and XLSX
// serializers. Cells stay typed so the spreadsheet writer can emit real
// numbers; the CSV writer formats them.
type table struct {
	title  string
	header []string
	rows   [][]any
	// varianceCol is the index of the variance-percent column for color
	// coding, -1 when the table has none.
	varianceCol int
}

// buildTable maps a report kind onto its table. Unknown kinds produce the
// placeholder table.
func buildTable(kind ReportKind, result *analysis.Result) table {
	switch kind {
	case ReportConsultants:
		return consultantsTable(result)
	case ReportArchitects:
		return architectsTable(result)
	case ReportCustomers:
		return customersTable(result)
	case ReportDAS:
		return dasTable(result)
	case ReportCombinations:
		return combinationsTable(result)
	case ReportConsultantProjects:
		return consultantProjectsTable(result)
	}
	return table{
		title:       string(kind),
		header:      []string{"Report"},
		rows:        [][]any{{"no data"}},
		varianceCol: -1,
	}
}

// buildAllTables assembles every known report table, plus the excluded
// projects audit when present. The builders are independent, so they run on
// an errgroup; each works on its own slot.
func buildAllTables(result *analysis.Result) []table {
	tables := make([]table, len(Kinds))

	var g errgroup.Group
	for i, kind := range Kinds {
		g.Go(func() error {
			tables[i] = buildTable(kind, result)
			return nil
		})
	}
	g.Wait() // builders never fail

	if len(result.ExcludedProjects) > 0 {
		tables = append(tables, excludedTable(result))
	}
	return tables
}

func consultantsTable(result *analysis.Result) table {
	t := table{
		title:       "Consultants",
		header:      []string{"Name", "Projects", "Total Hours", "Within Budget", "Over Budget", "Success Rate", "Efficiency Score"},
		varianceCol: -1,
	}
	for _, c := range result.Consultants {
		t.rows = append(t.rows, []any{
			c.Name, c.Projects, c.TotalHours, c.WithinBudget, c.OverBudget, c.SuccessRate, c.EfficiencyScore,
		})
	}
	return t
}

func architectsTable(result *analysis.Result) table {
	t := table{
		title:       "Solution Architects",
		header:      []string{"Name", "Projects", "Successful", "Budgeted Hours", "Actual Hours", "Success Rate", "Variance %"},
		varianceCol: 6,
	}
	for _, sa := range result.SolutionArchitects {
		t.rows = append(t.rows, []any{
			sa.Name, sa.Projects, sa.SuccessfulProjects, sa.TotalBudgetedHours, sa.TotalActualHours, sa.SuccessRate, sa.VariancePct,
		})
	}
	return t
}

func customersTable(result *analysis.Result) table {
	t := table{
		title:       "Customers",
		header:      []string{"Scope", "Name", "Projects", "Budget Hours", "Actual Hours", "Within Budget", "Over Budget", "Success Rate", "Avg Variance %", "Risk Score", "Risk Level"},
		varianceCol: 8,
	}
	appendScope := func(scope string, metrics []analysis.CustomerMetrics) {
		for _, c := range metrics {
			t.rows = append(t.rows, []any{
				scope, c.Name, c.Projects, c.TotalBudgetHrs, c.TotalActualHrs,
				c.WithinBudget, c.OverBudget, c.SuccessRate, c.AvgVariancePct,
				c.RiskScore, c.RiskLevel,
			})
		}
	}
	appendScope("practice", result.Customers.Practice)
	appendScope("company", result.Customers.Company)
	return t
}

func dasTable(result *analysis.Result) table {
	t := table{
		title:       "DAS+ Analysis",
		header:      []string{"Name", "Projects", "Avg DAS", "Median DAS", "Low", "High", "Review"},
		varianceCol: -1,
	}
	for _, c := range result.DAS.Consultants {
		t.rows = append(t.rows, []any{
			c.Name, c.Projects, c.AvgDAS, c.MedianDAS, c.LowCount, c.HighCount, c.ReviewCount,
		})
	}
	return t
}

func combinationsTable(result *analysis.Result) table {
	t := table{
		title:       "SA Combinations",
		header:      []string{"Kind", "Solution Architect", "Partner", "Projects", "Successful", "Success Rate"},
		varianceCol: -1,
	}
	appendKind := func(kind string, combos []analysis.ComboMetrics) {
		for _, c := range combos {
			t.rows = append(t.rows, []any{
				kind, c.Architect, c.Partner, c.Projects, c.SuccessfulProjects, c.SuccessRate,
			})
		}
	}
	appendKind("sa-consultant", result.SACombinations)
	appendKind("sa-customer", result.SACustomerAnalysis)
	return t
}

func consultantProjectsTable(result *analysis.Result) table {
	t := table{
		title:       "Consultant Projects",
		header:      []string{"Consultant", "Job Number", "Description", "Customer", "Budget Hours", "Actual Hours", "Variance %", "Status", "Completion"},
		varianceCol: 6,
	}
	for _, c := range result.Consultants {
		for _, p := range c.ProjectDetails {
			t.rows = append(t.rows, []any{
				c.Name, p.JobNumber, p.JobDescription, p.Customer,
				p.BudgetHours, p.ActualHours, p.VariancePct, p.Status, p.Completion,
			})
		}
	}
	return t
}

func excludedTable(result *analysis.Result) table {
	t := table{
		title:       "Excluded Projects",
		header:      []string{"Consultant", "Job Number", "Reason"},
		varianceCol: -1,
	}
	for _, e := range result.ExcludedProjects {
		t.rows = append(t.rows, []any{e.Consultant, e.JobNumber, e.Reason})
	}
	return t
}

// formatCell renders a typed cell for delimited output.
func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

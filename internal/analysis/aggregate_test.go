package analysis

import (
	"testing"

	"pfpulse/internal/financials"
)

const testThreshold = 0.30

func TestAggregateBudgetZeroExcluded(t *testing.T) {
	rows := []financials.ProjectRow{
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 0, ActualHours: 40, ResourcesEngaged: "Alice", SolutionArchitect: "Sam"},
		{JobNumber: "J2", Customer: "Acme", BudgetHours: -5, ActualHours: 10, ResourcesEngaged: "Alice"},
	}

	agg := aggregate(rows, FilterSet{}, testThreshold)

	if len(agg.consultants) != 0 {
		t.Errorf("budget<=0 rows must not reach consultants, got %d", len(agg.consultants))
	}
	if len(agg.architects) != 0 {
		t.Errorf("budget<=0 rows must not reach architects, got %d", len(agg.architects))
	}
	if len(agg.company) != 0 || len(agg.practice) != 0 {
		t.Error("budget<=0 rows must not reach either customer map")
	}
	if agg.totalRows != 2 {
		t.Errorf("totalRows counts every input row, got %d", agg.totalRows)
	}
}

func TestAggregateFanOutWithoutHourSplitting(t *testing.T) {
	rows := []financials.ProjectRow{
		{JobNumber: "J1", BudgetHours: 100, ActualHours: 10, ResourcesEngaged: "A-One, B-Two"},
	}

	agg := aggregate(rows, FilterSet{}, testThreshold)

	for _, name := range []string{"A-One", "B-Two"} {
		state, ok := agg.consultants[name]
		if !ok {
			t.Fatalf("consultant %q missing", name)
		}
		if state.totalHours != 10 {
			t.Errorf("%q credited %v hours, want the full 10", name, state.totalHours)
		}
		if state.projects != 1 {
			t.Errorf("%q has %d projects, want 1", name, state.projects)
		}
	}
}

func TestAggregatePracticeCompanySplit(t *testing.T) {
	filters := FilterSet{Engineers: []string{"Alice"}}
	rows := []financials.ProjectRow{
		// Sole consultant fails the allow-list and no SA: company only.
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 90, ResourcesEngaged: "Zed"},
		// Qualifying consultant: practice and company.
		{JobNumber: "J2", Customer: "Globex", BudgetHours: 100, ActualHours: 95, ResourcesEngaged: "Alice"},
	}

	agg := aggregate(rows, filters, testThreshold)

	if agg.practiceJobs["J1"] {
		t.Error("J1 must not be marked practice")
	}
	if !agg.practiceJobs["J2"] {
		t.Error("J2 must be marked practice")
	}
	if _, ok := agg.company["Acme"]; !ok {
		t.Error("Acme must be in the company map")
	}
	if _, ok := agg.practice["Acme"]; ok {
		t.Error("Acme must be absent from the practice map")
	}
	if _, ok := agg.practice["Globex"]; !ok {
		t.Error("Globex must be in the practice map")
	}
}

func TestAggregateSAMarksPractice(t *testing.T) {
	// A qualifying SA alone is enough for the practice mark, even when every
	// consultant fails the allow-list.
	filters := FilterSet{Engineers: []string{"Nobody Matches This"}}
	rows := []financials.ProjectRow{
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 90, ResourcesEngaged: "Zed", SolutionArchitect: "Sam"},
	}

	agg := aggregate(rows, filters, testThreshold)
	if !agg.practiceJobs["J1"] {
		t.Error("SA contribution must mark the job practice")
	}
	if _, ok := agg.practice["Acme"]; !ok {
		t.Error("practice map must include the SA-only project")
	}
}

func TestAggregateExclusionsConsultantsOnly(t *testing.T) {
	filters := FilterSet{
		Exclusions: []ExclusionRule{{Consultant: "Sam", JobNumber: "J1", Reason: "oversight role"}},
	}
	rows := []financials.ProjectRow{
		{JobNumber: "J1", BudgetHours: 100, ActualHours: 90, ResourcesEngaged: "Sam", SolutionArchitect: "Sam"},
	}

	agg := aggregate(rows, filters, testThreshold)

	if _, ok := agg.consultants["Sam"]; ok {
		t.Error("excluded consultant must not accumulate")
	}
	if _, ok := agg.architects["Sam"]; !ok {
		t.Error("exclusions never apply to the SA side")
	}
	if len(agg.excluded) != 1 || agg.excluded[0].Reason != "oversight role" {
		t.Errorf("dropped contribution must be recorded for audit, got %+v", agg.excluded)
	}
}

func TestAggregateMissingCustomer(t *testing.T) {
	rows := []financials.ProjectRow{
		{JobNumber: "J1", BudgetHours: 100, ActualHours: 90, ResourcesEngaged: "Alice"},
	}

	agg := aggregate(rows, FilterSet{}, testThreshold)

	if len(agg.company) != 0 {
		t.Error("rows without a customer stay out of the customer maps")
	}
	if _, ok := agg.consultants["Alice"]; !ok {
		t.Error("missing customer only affects customer aggregation")
	}
}

func TestAggregateWithinOverClassification(t *testing.T) {
	rows := []financials.ProjectRow{
		{JobNumber: "J1", BudgetHours: 100, ActualHours: 120, ResourcesEngaged: "Alice"}, // 0.20 within
		{JobNumber: "J2", BudgetHours: 100, ActualHours: 130, ResourcesEngaged: "Alice"}, // 0.30 within (inclusive)
		{JobNumber: "J3", BudgetHours: 100, ActualHours: 131, ResourcesEngaged: "Alice"}, // 0.31 over
	}

	agg := aggregate(rows, FilterSet{}, testThreshold)
	state := agg.consultants["Alice"]
	if state == nil {
		t.Fatal("Alice missing")
	}
	if state.withinBudget != 2 || state.overBudget != 1 {
		t.Errorf("classification = %d within / %d over, want 2/1", state.withinBudget, state.overBudget)
	}
	if len(state.details) != 3 {
		t.Errorf("expected 3 project details, got %d", len(state.details))
	}
	if state.details[0].VariancePct != 20.0 {
		t.Errorf("variance pct = %v, want 20.0", state.details[0].VariancePct)
	}
}

package analysis

import (
	"pfpulse/internal/financials"
)

// consultantState accumulates one consultant's contributions. Created
// lazily on first contribution, never pre-seeded.
type consultantState struct {
	projects     int
	totalHours   float64
	withinBudget int
	overBudget   int
	details      []ProjectDetail
}

// architectState accumulates one SA's contributions. SAs track budget and
// actual sums instead of a single hours figure.
type architectState struct {
	projects      int
	successful    int
	totalBudgeted float64
	totalActual   float64
	details       []ProjectDetail
}

// customerState accumulates one customer's contributions. totalVariancePct
// is a running sum of per-project variance percentages, averaged later.
type customerState struct {
	projects         int
	totalBudget      float64
	totalActual      float64
	totalVariancePct float64
	withinBudget     int
	overBudget       int
	details          []ProjectDetail
}

// aggregation is the complete two-pass accumulation state.
type aggregation struct {
	totalRows   int
	consultants map[string]*consultantState
	architects  map[string]*architectState
	practice    map[string]*customerState
	company     map[string]*customerState
	// practiceJobs marks job numbers with at least one accepted consultant
	// or SA contribution from pass 1. Computed once, reused in pass 2.
	practiceJobs map[string]bool
	excluded     []ExcludedProject
}

// newDetail snapshots a row for an entity's project-detail list.
func newDetail(row financials.ProjectRow, variance float64) ProjectDetail {
	return ProjectDetail{
		JobNumber:      row.JobNumber,
		JobDescription: row.JobDescription,
		Customer:       row.Customer,
		BudgetHours:    row.BudgetHours,
		ActualHours:    row.ActualHours,
		VariancePct:    VariancePct(variance),
		Status:         row.ProjectStatus,
		Completion:     row.Completion,
	}
}

// addCustomer is the single accumulation routine shared by the practice and
// company maps, so the two cannot drift.
func addCustomer(m map[string]*customerState, row financials.ProjectRow, variance float64, within bool) {
	state, ok := m[row.Customer]
	if !ok {
		state = &customerState{}
		m[row.Customer] = state
	}
	state.projects++
	state.totalBudget += row.BudgetHours
	state.totalActual += row.ActualHours
	state.totalVariancePct += variance * 100
	if within {
		state.withinBudget++
	} else {
		state.overBudget++
	}
	state.details = append(state.details, newDetail(row, variance))
}

// aggregate runs the two sequential passes over the full row set. Pass 2
// depends on the complete pass-1 practice classification, so the passes are
// never interleaved per row.
func aggregate(rows []financials.ProjectRow, filters FilterSet, successThreshold float64) *aggregation {
	agg := &aggregation{
		totalRows:    len(rows),
		consultants:  make(map[string]*consultantState),
		architects:   make(map[string]*architectState),
		practice:     make(map[string]*customerState),
		company:      make(map[string]*customerState),
		practiceJobs: make(map[string]bool),
	}

	// Pass 1: consultant and SA contributions, practice marking.
	for _, row := range rows {
		if row.BudgetHours <= 0 {
			continue
		}

		variance := Variance(row.ActualHours, row.BudgetHours)
		within := IsWithinBudget(variance, successThreshold)
		accepted := false

		for _, name := range SplitPeople(row.ResourcesEngaged) {
			if !PassesAllowList(name, filters.Engineers) {
				continue
			}
			if IsExcluded(name, row.JobNumber, filters.Exclusions) {
				agg.excluded = append(agg.excluded, ExcludedProject{
					Consultant: name,
					JobNumber:  row.JobNumber,
					Reason:     exclusionReason(name, row.JobNumber, filters.Exclusions),
				})
				continue
			}

			state, ok := agg.consultants[name]
			if !ok {
				state = &consultantState{}
				agg.consultants[name] = state
			}
			state.projects++
			// Full actual hours per consultant: co-assigned consultants
			// each get the whole row, hours are never split.
			state.totalHours += row.ActualHours
			if within {
				state.withinBudget++
			} else {
				state.overBudget++
			}
			state.details = append(state.details, newDetail(row, variance))
			accepted = true
		}

		for _, name := range SplitPeople(row.SolutionArchitect) {
			if !PassesAllowList(name, filters.Architects) {
				continue
			}

			state, ok := agg.architects[name]
			if !ok {
				state = &architectState{}
				agg.architects[name] = state
			}
			state.projects++
			state.totalBudgeted += row.BudgetHours
			state.totalActual += row.ActualHours
			if within {
				state.successful++
			}
			state.details = append(state.details, newDetail(row, variance))
			accepted = true
		}

		if accepted {
			agg.practiceJobs[row.JobNumber] = true
		}
	}

	// Pass 2: customer maps. Company is unconditional for rows with a
	// customer and positive budget; practice only for marked jobs. Allow
	// lists reach customers only indirectly, through the practice marking.
	for _, row := range rows {
		if row.BudgetHours <= 0 || row.Customer == "" {
			continue
		}

		variance := Variance(row.ActualHours, row.BudgetHours)
		within := IsWithinBudget(variance, successThreshold)

		addCustomer(agg.company, row, variance, within)
		if agg.practiceJobs[row.JobNumber] {
			addCustomer(agg.practice, row, variance, within)
		}
	}

	return agg
}

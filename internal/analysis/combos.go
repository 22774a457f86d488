package analysis

import (
	"pfpulse/internal/financials"
)

// minSharedProjects is the floor for pair reporting. A single shared project
// says nothing about the pairing.
const minSharedProjects = 2

// comboState accumulates one (SA, partner) pair.
type comboState struct {
	architect  string
	partner    string
	projects   int
	successful int
}

// comboKey keys the pair map. Names are already normalized, so plain
// concatenation with a separator is collision-safe enough for this data.
func comboKey(architect, partner string) string {
	return architect + "\x00" + partner
}

// accumulateCombo is the single accumulation routine for both combination
// kinds; the caller supplies the partner extractor so the SA×Consultant and
// SA×Customer passes cannot drift apart.
func accumulateCombo(m map[string]*comboState, architect, partner string, within bool) {
	key := comboKey(architect, partner)
	state, ok := m[key]
	if !ok {
		state = &comboState{architect: architect, partner: partner}
		m[key] = state
	}
	state.projects++
	if within {
		state.successful++
	}
}

// buildCombos runs the third full pass over the rows, pairing each qualifying
// SA with the row's qualifying consultants and with its customer. The
// SA×Consultant pairing applies both allow-lists; the SA×Customer pairing
// applies only the SA allow-list.
func buildCombos(rows []financials.ProjectRow, filters FilterSet, successThreshold float64) (saConsultant, saCustomer []ComboMetrics) {
	consultantPairs := make(map[string]*comboState)
	customerPairs := make(map[string]*comboState)

	for _, row := range rows {
		if row.BudgetHours <= 0 {
			continue
		}

		architects := make([]string, 0, 2)
		for _, name := range SplitPeople(row.SolutionArchitect) {
			if PassesAllowList(name, filters.Architects) {
				architects = append(architects, name)
			}
		}
		if len(architects) == 0 {
			continue
		}

		within := IsWithinBudget(Variance(row.ActualHours, row.BudgetHours), successThreshold)

		for _, sa := range architects {
			for _, consultant := range SplitPeople(row.ResourcesEngaged) {
				if !PassesAllowList(consultant, filters.Engineers) {
					continue
				}
				accumulateCombo(consultantPairs, sa, consultant, within)
			}
			if row.Customer != "" {
				accumulateCombo(customerPairs, sa, row.Customer, within)
			}
		}
	}

	return comboMetrics(consultantPairs), comboMetrics(customerPairs)
}

// comboMetrics converts a pair map into metric records, dropping pairs below
// the shared-project floor.
func comboMetrics(m map[string]*comboState) []ComboMetrics {
	metrics := make([]ComboMetrics, 0, len(m))
	for _, state := range m {
		if state.projects < minSharedProjects {
			continue
		}
		metrics = append(metrics, ComboMetrics{
			Architect:          state.architect,
			Partner:            state.partner,
			Projects:           state.projects,
			SuccessfulProjects: state.successful,
			SuccessRate:        rate(state.successful, state.projects),
		})
	}
	return metrics
}

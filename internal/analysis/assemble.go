package analysis

import (
	"sort"

	"pfpulse/internal/config"
	"pfpulse/internal/financials"
)

// Options bundles everything one analysis invocation needs besides the rows.
type Options struct {
	Filters FilterSet
	// Disqualified names are dropped from the quarter ranking only; every
	// other metric still counts them.
	Disqualified []string
	Settings     config.AnalysisSettings
}

// Analyze is the engine entry point: rows plus options in, the complete
// assembled result out. Pure and synchronous; identical inputs produce
// byte-identical output, and no state survives between invocations.
func Analyze(rows []financials.ProjectRow, opts Options) *Result {
	threshold := opts.Settings.Thresholds.SuccessThreshold
	agg := aggregate(rows, opts.Filters, threshold)

	companyFloor := opts.Settings.ClientAnalysis.MinProjectsThreshold
	if companyFloor <= 0 {
		companyFloor = companyMinProjects
	}

	result := &Result{
		TotalProjects:      agg.totalRows,
		Consultants:        buildConsultantMetrics(agg),
		SolutionArchitects: buildArchitectMetrics(agg),
		Customers: CustomerBreakdown{
			Practice: buildCustomerMetrics(agg.practice, 0),
			Company:  buildCustomerMetrics(agg.company, companyFloor),
		},
		DAS:              computeDAS(rows, opts.Filters, opts.Settings.DASPlus),
		ExcludedProjects: agg.excluded,
	}

	result.SACombinations, result.SACustomerAnalysis = buildCombos(rows, opts.Filters, threshold)
	result.ConsultantOfQuarter = buildQuarterRankings(result.Consultants, opts.Disqualified)

	sortResult(result)
	return result
}

// sortResult applies the report sort orders. All sorts are descending on the
// headline metric with ascending name (or pair key) as the tie-breaker, so
// equal scores still produce deterministic output.
func sortResult(r *Result) {
	sort.Slice(r.Consultants, func(i, j int) bool {
		a, b := r.Consultants[i], r.Consultants[j]
		if a.EfficiencyScore != b.EfficiencyScore {
			return a.EfficiencyScore > b.EfficiencyScore
		}
		return a.Name < b.Name
	})

	sort.Slice(r.SolutionArchitects, func(i, j int) bool {
		a, b := r.SolutionArchitects[i], r.SolutionArchitects[j]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		return a.Name < b.Name
	})

	sortCustomers(r.Customers.Practice)
	sortCustomers(r.Customers.Company)

	sort.Slice(r.DAS.Consultants, func(i, j int) bool {
		a, b := r.DAS.Consultants[i], r.DAS.Consultants[j]
		if a.AvgDAS != b.AvgDAS {
			return a.AvgDAS > b.AvgDAS
		}
		return a.Name < b.Name
	})

	sortCombos(r.SACombinations)
	sortCombos(r.SACustomerAnalysis)

	sort.Slice(r.ConsultantOfQuarter, func(i, j int) bool {
		a, b := r.ConsultantOfQuarter[i], r.ConsultantOfQuarter[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		return a.Name < b.Name
	})

	sort.Slice(r.ExcludedProjects, func(i, j int) bool {
		a, b := r.ExcludedProjects[i], r.ExcludedProjects[j]
		if a.JobNumber != b.JobNumber {
			return a.JobNumber < b.JobNumber
		}
		return a.Consultant < b.Consultant
	})
}

func sortCustomers(customers []CustomerMetrics) {
	sort.Slice(customers, func(i, j int) bool {
		a, b := customers[i], customers[j]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		return a.Name < b.Name
	})
}

func sortCombos(combos []ComboMetrics) {
	sort.Slice(combos, func(i, j int) bool {
		a, b := combos[i], combos[j]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		if a.Architect != b.Architect {
			return a.Architect < b.Architect
		}
		return a.Partner < b.Partner
	})
}

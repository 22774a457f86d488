package analysis

// buildConsultantMetrics converts the finished accumulators into metric
// records. SuccessRate and EfficiencyScore are the same formula by design;
// both columns exist downstream and must keep reporting the same value.
func buildConsultantMetrics(agg *aggregation) []ConsultantMetrics {
	metrics := make([]ConsultantMetrics, 0, len(agg.consultants))
	for name, state := range agg.consultants {
		successRate := rate(state.withinBudget, state.projects)
		metrics = append(metrics, ConsultantMetrics{
			Name:            name,
			Projects:        state.projects,
			TotalHours:      state.totalHours,
			WithinBudget:    state.withinBudget,
			OverBudget:      state.overBudget,
			SuccessRate:     successRate,
			EfficiencyScore: successRate,
			ProjectDetails:  state.details,
		})
	}
	return metrics
}

package analysis

// buildArchitectMetrics converts SA accumulators into metric records. The
// SA variance is computed over the hour sums, not averaged per project.
func buildArchitectMetrics(agg *aggregation) []ArchitectMetrics {
	metrics := make([]ArchitectMetrics, 0, len(agg.architects))
	for name, state := range agg.architects {
		variancePct := 0.0
		if state.totalBudgeted > 0 {
			variancePct = VariancePct(Variance(state.totalActual, state.totalBudgeted))
		}
		metrics = append(metrics, ArchitectMetrics{
			Name:               name,
			Projects:           state.projects,
			SuccessfulProjects: state.successful,
			TotalBudgetedHours: state.totalBudgeted,
			TotalActualHours:   state.totalActual,
			SuccessRate:        rate(state.successful, state.projects),
			VariancePct:        variancePct,
			ProjectDetails:     state.details,
		})
	}
	return metrics
}

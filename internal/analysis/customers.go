package analysis

import "math"

// companyMinProjects is the floor applied to the company-wide customer
// list. Customers with fewer projects are noise at company scale. The
// practice list carries no floor.
const companyMinProjects = 3

// riskScore sums the four weighted customer-health signals. The boundary
// behavior is contractual: a success rate of exactly 50 scores +2, not +4;
// budget hours of exactly 2000 or 5000 score +0.
func riskScore(successRate float64, projects int, avgVariancePct, totalBudgetHrs float64) int {
	score := 0

	switch {
	case successRate < 50:
		score += 4
	case successRate < 70:
		score += 2
	case successRate < 85:
		score += 1
	}

	switch {
	case projects >= 10:
		// established relationship, no penalty
	case projects >= 5:
		score += 1
	default:
		score += 2
	}

	absVar := math.Abs(avgVariancePct)
	switch {
	case absVar > 50:
		score += 3
	case absVar > 30:
		score += 2
	case absVar > 15:
		score += 1
	}

	// Very small engagements and very large exposures both add risk; the
	// middle band is neutral.
	switch {
	case totalBudgetHrs > 5000:
		score += 1
	case totalBudgetHrs >= 2000:
		// neutral
	default:
		score += 1
	}

	return score
}

// riskLevel buckets a risk score.
func riskLevel(score int) string {
	switch {
	case score <= 2:
		return RiskLow
	case score <= 5:
		return RiskMedium
	case score <= 8:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// buildCustomerMetrics converts one customer map into risk-scored metric
// records. minProjects drops customers below the floor (0 for no floor).
func buildCustomerMetrics(m map[string]*customerState, minProjects int) []CustomerMetrics {
	metrics := make([]CustomerMetrics, 0, len(m))
	for name, state := range m {
		if state.projects < minProjects {
			continue
		}

		successRate := rate(state.withinBudget, state.projects)
		avgVariance := Round1(state.totalVariancePct / float64(state.projects))
		score := riskScore(successRate, state.projects, avgVariance, state.totalBudget)

		metrics = append(metrics, CustomerMetrics{
			Name:           name,
			Projects:       state.projects,
			TotalBudgetHrs: state.totalBudget,
			TotalActualHrs: state.totalActual,
			WithinBudget:   state.withinBudget,
			OverBudget:     state.overBudget,
			SuccessRate:    successRate,
			AvgVariancePct: avgVariance,
			RiskScore:      score,
			RiskLevel:      riskLevel(score),
			ProjectDetails: state.details,
		})
	}
	return metrics
}

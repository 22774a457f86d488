package analysis

import "math"

// Variance is the signed fractional budget overrun: (actual-budget)/budget.
// Callers must guard budget > 0; the aggregator never calls this for a row
// that failed that guard.
func Variance(actualHrs, budgetHrs float64) float64 {
	return (actualHrs - budgetHrs) / budgetHrs
}

// IsWithinBudget classifies a variance against the success threshold.
// The boundary is inclusive: variance exactly at the threshold is within.
func IsWithinBudget(variance, successThreshold float64) bool {
	return variance <= successThreshold
}

// Round1 rounds to one decimal, half away from zero. All displayed
// percentages go through this.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// VariancePct converts a fractional variance to a display percentage,
// rounded to one decimal.
func VariancePct(variance float64) float64 {
	return Round1(variance * 100)
}

// rate is count/total as a percentage rounded to one decimal. A zero total
// yields 0 rather than NaN; accumulators are lazily created so a zero total
// is structurally impossible in practice.
func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(count) / float64(total) * 100)
}

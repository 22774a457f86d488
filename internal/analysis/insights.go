package analysis

import (
	"math"
	"sort"

	"pfpulse/internal/config"
	"pfpulse/internal/financials"
)

// Budget size classes for the insights breakdown, in budget hours.
const (
	sizeSmallMax  = 100.0
	sizeMediumMax = 500.0

	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// minAnomalySamples is the minimum tracked-project count before anomaly
// detection runs; below it the standard deviation is meaningless.
const minAnomalySamples = 10

// SizeClassMetrics is success by project size.
type SizeClassMetrics struct {
	Class          string  `json:"class"`
	Projects       int     `json:"projects"`
	WithinBudget   int     `json:"withinBudget"`
	SuccessRate    float64 `json:"successRate"`
	AvgVariancePct float64 `json:"avgVariancePct"`
}

// VarianceAnomaly is a project whose variance sits far outside the tracked
// population.
type VarianceAnomaly struct {
	JobNumber   string  `json:"jobNumber"`
	Customer    string  `json:"customer,omitempty"`
	VariancePct float64 `json:"variancePct"`
	// Deviations is the distance from the mean in standard deviations.
	Deviations float64 `json:"deviations"`
}

// Insights is the advanced-analytics report over tracked projects.
type Insights struct {
	// TrackedProjects counts distinct jobs with at least one qualifying
	// consultant or SA.
	TrackedProjects   int                `json:"trackedProjects"`
	SizeClasses       []SizeClassMetrics `json:"sizeClasses"`
	MeanVariancePct   float64            `json:"meanVariancePct"`
	StdDevVariancePct float64            `json:"stdDevVariancePct"`
	Anomalies         []VarianceAnomaly  `json:"anomalies,omitempty"`
}

// SizeClass buckets a budget into small/medium/large.
func SizeClass(budgetHours float64) string {
	switch {
	case budgetHours < sizeSmallMax:
		return SizeSmall
	case budgetHours <= sizeMediumMax:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// TrackedRows returns the rows with a positive budget and at least one
// allow-list-passing, non-excluded consultant or allow-list-passing SA,
// deduplicated by job number (first occurrence wins).
func TrackedRows(rows []financials.ProjectRow, filters FilterSet) []financials.ProjectRow {
	seen := make(map[string]bool)
	tracked := make([]financials.ProjectRow, 0, len(rows))

	for _, row := range rows {
		if row.BudgetHours <= 0 || seen[row.JobNumber] {
			continue
		}

		qualifies := false
		for _, name := range SplitPeople(row.ResourcesEngaged) {
			if PassesAllowList(name, filters.Engineers) && !IsExcluded(name, row.JobNumber, filters.Exclusions) {
				qualifies = true
				break
			}
		}
		if !qualifies {
			for _, name := range SplitPeople(row.SolutionArchitect) {
				if PassesAllowList(name, filters.Architects) {
					qualifies = true
					break
				}
			}
		}
		if !qualifies {
			continue
		}

		seen[row.JobNumber] = true
		tracked = append(tracked, row)
	}
	return tracked
}

// ComputeInsights builds the size-class breakdown and variance anomaly list
// over the tracked projects.
func ComputeInsights(rows []financials.ProjectRow, filters FilterSet, settings config.AnalysisSettings) Insights {
	tracked := TrackedRows(rows, filters)
	threshold := settings.Thresholds.SuccessThreshold

	type classAcc struct {
		projects    int
		within      int
		varianceSum float64
	}
	classes := map[string]*classAcc{
		SizeSmall:  {},
		SizeMedium: {},
		SizeLarge:  {},
	}

	variances := make([]float64, 0, len(tracked))
	for _, row := range tracked {
		v := Variance(row.ActualHours, row.BudgetHours)
		variances = append(variances, v*100)

		acc := classes[SizeClass(row.BudgetHours)]
		acc.projects++
		acc.varianceSum += v * 100
		if IsWithinBudget(v, threshold) {
			acc.within++
		}
	}

	insights := Insights{TrackedProjects: len(tracked)}
	for _, class := range []string{SizeSmall, SizeMedium, SizeLarge} {
		acc := classes[class]
		if acc.projects == 0 {
			continue
		}
		insights.SizeClasses = append(insights.SizeClasses, SizeClassMetrics{
			Class:          class,
			Projects:       acc.projects,
			WithinBudget:   acc.within,
			SuccessRate:    rate(acc.within, acc.projects),
			AvgVariancePct: Round1(acc.varianceSum / float64(acc.projects)),
		})
	}

	if len(variances) == 0 {
		return insights
	}

	mean, stddev := meanStdDev(variances)
	insights.MeanVariancePct = Round1(mean)
	insights.StdDevVariancePct = Round1(stddev)

	k := settings.AdvancedAnalytics.AnomalyThreshold
	if k <= 0 {
		k = 2.0
	}
	if len(variances) >= minAnomalySamples && stddev > 0 {
		for i, row := range tracked {
			dev := math.Abs(variances[i]-mean) / stddev
			if dev > k {
				insights.Anomalies = append(insights.Anomalies, VarianceAnomaly{
					JobNumber:   row.JobNumber,
					Customer:    row.Customer,
					VariancePct: Round1(variances[i]),
					Deviations:  Round1(dev),
				})
			}
		}
		sort.Slice(insights.Anomalies, func(i, j int) bool {
			a, b := insights.Anomalies[i], insights.Anomalies[j]
			if a.Deviations != b.Deviations {
				return a.Deviations > b.Deviations
			}
			return a.JobNumber < b.JobNumber
		})
	}

	return insights
}

// meanStdDev is the population mean and standard deviation.
func meanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

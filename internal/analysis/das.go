package analysis

import (
	"math"
	"sort"
	"strings"

	"pfpulse/internal/config"
	"pfpulse/internal/financials"
)

// Fixed DAS score bands. The review band is configurable and overlaps
// these deliberately; one project can be counted low and review, or high
// and review, at the same time.
const (
	dasLowBand  = 0.75
	dasHighBand = 0.85
)

// statusImpliesComplete reports whether a project's status text forces the
// completion ratio to 1.0 regardless of the reported percentage.
func statusImpliesComplete(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "closed") || strings.Contains(s, "complete")
}

// dasScore computes one project's delivery-accuracy score: how closely
// budget consumption tracks reported completion.
func dasScore(row financials.ProjectRow) (score, budgetRatio, completionRatio float64) {
	budgetRatio = row.ActualHours / row.BudgetHours

	completionRatio = row.Completion
	if statusImpliesComplete(row.ProjectStatus) || row.Completion >= 0.95 {
		completionRatio = 1.0
	}

	score = 1 - math.Abs(budgetRatio-completionRatio)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, budgetRatio, completionRatio
}

// lowerMedian returns the element at floor(n/2) of the ascending-sorted
// scores. For even-length lists this is the upper of the two middle
// elements, never their average: [0.2 0.5 0.7 0.9] yields 0.7.
func lowerMedian(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// computeDAS scores every budgeted project per allow-listed consultant and
// aggregates per consultant. Review projects are sampled deterministically
// (first N by job number) from consultants with enough volume.
func computeDAS(rows []financials.ProjectRow, filters FilterSet, settings config.DASSettings) DASAnalysis {
	perConsultant := make(map[string][]DASProject)

	for _, row := range rows {
		if row.BudgetHours <= 0 {
			continue
		}
		score, budgetRatio, completionRatio := dasScore(row)

		for _, name := range SplitPeople(row.ResourcesEngaged) {
			if !PassesAllowList(name, filters.Engineers) {
				continue
			}
			perConsultant[name] = append(perConsultant[name], DASProject{
				JobNumber:       row.JobNumber,
				Consultant:      name,
				Customer:        row.Customer,
				BudgetRatio:     budgetRatio,
				CompletionRatio: completionRatio,
				Score:           score,
				Status:          row.ProjectStatus,
			})
		}
	}

	analysis := DASAnalysis{
		Consultants: make([]DASConsultant, 0, len(perConsultant)),
	}

	for name, projects := range perConsultant {
		scores := make([]float64, 0, len(projects))
		sum := 0.0
		low, high, review := 0, 0, 0
		for _, p := range projects {
			scores = append(scores, p.Score)
			sum += p.Score
			if p.Score < dasLowBand {
				low++
			}
			if p.Score >= dasHighBand {
				high++
			}
			if p.Score >= settings.ReviewMin && p.Score <= settings.ReviewMax {
				review++
			}
		}

		analysis.Consultants = append(analysis.Consultants, DASConsultant{
			Name:        name,
			Projects:    len(projects),
			AvgDAS:      sum / float64(len(projects)),
			MedianDAS:   lowerMedian(scores),
			LowCount:    low,
			HighCount:   high,
			ReviewCount: review,
		})

		if len(projects) >= settings.MinProjectsForReview {
			candidates := make([]DASProject, 0, len(projects))
			for _, p := range projects {
				if p.Score >= settings.ReviewMin && p.Score <= settings.ReviewMax {
					candidates = append(candidates, p)
				}
			}
			sort.Slice(candidates, func(i, j int) bool {
				return candidates[i].JobNumber < candidates[j].JobNumber
			})
			if len(candidates) > settings.SampleProjects {
				candidates = candidates[:settings.SampleProjects]
			}
			analysis.ReviewProjects = append(analysis.ReviewProjects, candidates...)
		}
	}

	sort.Slice(analysis.ReviewProjects, func(i, j int) bool {
		a, b := analysis.ReviewProjects[i], analysis.ReviewProjects[j]
		if a.JobNumber != b.JobNumber {
			return a.JobNumber < b.JobNumber
		}
		return a.Consultant < b.Consultant
	})

	return analysis
}

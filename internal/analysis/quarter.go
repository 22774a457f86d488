package analysis

import (
	"math"
	"strings"
)

// Composite score weights. The blend favors delivery outcomes over raw
// volume; consistency is a small tie-breaker.
const (
	weightSuccess     = 0.4
	weightEfficiency  = 0.3
	weightVolume      = 0.2
	weightConsistency = 0.1
)

// buildQuarterRankings scores every consultant not on the disqualified list.
// Volume is min-max normalized against the unfiltered consultant population,
// so disqualified consultants still set the scale even though they never
// appear in the output.
func buildQuarterRankings(consultants []ConsultantMetrics, disqualified []string) []QuarterRanking {
	maxProjects := 0
	maxHours := 0.0
	for _, c := range consultants {
		if c.Projects > maxProjects {
			maxProjects = c.Projects
		}
		if c.TotalHours > maxHours {
			maxHours = c.TotalHours
		}
	}

	rankings := make([]QuarterRanking, 0, len(consultants))
	for _, c := range consultants {
		if isDisqualified(c.Name, disqualified) {
			continue
		}

		volume := 0.0
		if maxProjects > 0 {
			volume += float64(c.Projects) / float64(maxProjects) * 50
		}
		if maxHours > 0 {
			volume += c.TotalHours / maxHours * 50
		}

		consistency := math.Max(0, 100-meanAbsVariancePct(c.ProjectDetails))

		composite := c.SuccessRate*weightSuccess +
			c.EfficiencyScore*weightEfficiency +
			volume*weightVolume +
			consistency*weightConsistency

		rankings = append(rankings, QuarterRanking{
			Name:             c.Name,
			CompositeScore:   Round1(composite),
			SuccessRate:      c.SuccessRate,
			EfficiencyScore:  c.EfficiencyScore,
			VolumeScore:      Round1(volume),
			ConsistencyScore: Round1(consistency),
			Projects:         c.Projects,
			TotalHours:       c.TotalHours,
		})
	}
	return rankings
}

// isDisqualified matches disqualified names case-insensitively after
// normalization, since the list comes from a hand-edited file.
func isDisqualified(name string, disqualified []string) bool {
	for _, d := range disqualified {
		if strings.EqualFold(NormalizeName(d), name) {
			return true
		}
	}
	return false
}

// meanAbsVariancePct is the mean absolute variance percentage across a
// consultant's projects.
func meanAbsVariancePct(details []ProjectDetail) float64 {
	if len(details) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range details {
		sum += math.Abs(d.VariancePct)
	}
	return sum / float64(len(details))
}

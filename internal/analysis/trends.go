package analysis

import (
	"sort"
	"time"

	"pfpulse/internal/config"
	"pfpulse/internal/financials"
)

// Trend directions. The stable band is +/- stableBandPct percentage points
// of efficiency movement.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"

	stableBandPct = 5.0
)

// ConsultantTrend is one consultant's efficiency movement between the
// previous and current period.
type ConsultantTrend struct {
	Name          string  `json:"name"`
	PreviousScore float64 `json:"previousScore"`
	CurrentScore  float64 `json:"currentScore"`
	// ChangePct is current minus previous, in percentage points.
	ChangePct float64 `json:"changePct"`
	Direction string  `json:"direction"`
}

// TrendReport compares two adjacent date windows of equal length.
type TrendReport struct {
	PeriodDays    int               `json:"periodDays"`
	CurrentStart  string            `json:"currentStart"`
	PreviousStart string            `json:"previousStart"`
	// CurrentRows/PreviousRows count the dated rows landing in each window;
	// rows without a parseable end date are invisible to the trend.
	CurrentRows  int               `json:"currentRows"`
	PreviousRows int               `json:"previousRows"`
	Consultants  []ConsultantTrend `json:"consultants"`
}

// ComputeTrends aggregates the current and previous period independently and
// reports per-consultant efficiency movement. Only consultants present in
// both periods appear; a consultant new to the current period has no
// baseline to move from.
func ComputeTrends(rows []financials.ProjectRow, filters FilterSet, settings config.AnalysisSettings, now time.Time) TrendReport {
	periodDays := settings.Trending.PeriodDays
	if periodDays <= 0 {
		periodDays = 90
	}

	currentStart := now.AddDate(0, 0, -periodDays)
	previousStart := now.AddDate(0, 0, -2*periodDays)

	var current, previous []financials.ProjectRow
	for _, row := range rows {
		end, ok := financials.ParseEndDate(row.EndDate)
		if !ok {
			continue
		}
		switch {
		case !end.Before(currentStart) && !end.After(now):
			current = append(current, row)
		case !end.Before(previousStart) && end.Before(currentStart):
			previous = append(previous, row)
		}
	}

	threshold := settings.Thresholds.SuccessThreshold
	currentScores := periodScores(current, filters, threshold)
	previousScores := periodScores(previous, filters, threshold)

	report := TrendReport{
		PeriodDays:    periodDays,
		CurrentStart:  currentStart.Format("2006-01-02"),
		PreviousStart: previousStart.Format("2006-01-02"),
		CurrentRows:   len(current),
		PreviousRows:  len(previous),
	}

	for name, currentScore := range currentScores {
		previousScore, ok := previousScores[name]
		if !ok {
			continue
		}
		change := Round1(currentScore - previousScore)
		direction := TrendStable
		switch {
		case change > stableBandPct:
			direction = TrendImproving
		case change < -stableBandPct:
			direction = TrendDeclining
		}
		report.Consultants = append(report.Consultants, ConsultantTrend{
			Name:          name,
			PreviousScore: previousScore,
			CurrentScore:  currentScore,
			ChangePct:     change,
			Direction:     direction,
		})
	}

	sort.Slice(report.Consultants, func(i, j int) bool {
		a, b := report.Consultants[i], report.Consultants[j]
		if a.ChangePct != b.ChangePct {
			return a.ChangePct > b.ChangePct
		}
		return a.Name < b.Name
	})

	return report
}

// periodScores runs the consultant aggregation over one window and returns
// name -> efficiency score.
func periodScores(rows []financials.ProjectRow, filters FilterSet, threshold float64) map[string]float64 {
	agg := aggregate(rows, filters, threshold)
	scores := make(map[string]float64, len(agg.consultants))
	for name, state := range agg.consultants {
		scores[name] = rate(state.withinBudget, state.projects)
	}
	return scores
}

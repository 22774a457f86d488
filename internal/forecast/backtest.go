package forecast

import (
	"fmt"
	"sort"

	"pfpulse/internal/analysis"
	"pfpulse/internal/financials"
)

// minWarmup is the number of completed projects the backtest needs before it
// starts issuing checkpoints.
const minWarmup = 10

// Checkpoint is one replayed point in history: the forecast built from
// everything before it, against what actually happened.
type Checkpoint struct {
	JobNumber   string  `json:"jobNumber"`
	EndDate     string  `json:"endDate"`
	ActualPct   float64 `json:"actualVariancePct"`
	P50         float64 `json:"p50VariancePct"`
	P95         float64 `json:"p95VariancePct"`
	WithinBand  bool    `json:"withinBand"`
	SampleSize  int     `json:"sampleSize"`
}

// BacktestResult reports how often actual variances fell inside the forecast
// band when history is replayed in order.
type BacktestResult struct {
	Coverage    float64      `json:"coverage"`
	Checkpoints []Checkpoint `json:"checkpoints"`
	Message     string       `json:"message"`
}

// Backtest replays the tracked projects in end-date order. For each project
// after the warmup it forecasts from the preceding history and checks
// whether the actual variance landed at or under the simulated P95. Coverage
// near 95% means the bands are honest; far below means they are too tight.
func (e *Engine) Backtest(rows []financials.ProjectRow, filters analysis.FilterSet, trials int) BacktestResult {
	type dated struct {
		row financials.ProjectRow
		end string
	}

	var ordered []dated
	for _, row := range analysis.TrackedRows(rows, filters) {
		end, ok := financials.ParseEndDate(row.EndDate)
		if !ok {
			continue
		}
		ordered = append(ordered, dated{row: row, end: end.Format("2006-01-02")})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].end != ordered[j].end {
			return ordered[i].end < ordered[j].end
		}
		return ordered[i].row.JobNumber < ordered[j].row.JobNumber
	})

	result := BacktestResult{}
	if len(ordered) <= minWarmup {
		result.Message = fmt.Sprintf("Not enough dated history to backtest: %d projects, need more than %d.", len(ordered), minWarmup)
		return result
	}

	history := make([]float64, 0, len(ordered))
	hits := 0
	for i, d := range ordered {
		actual := analysis.Variance(d.row.ActualHours, d.row.BudgetHours) * 100
		if i >= minWarmup {
			sample := Sample{Class: "history", Variances: history}
			sim := e.Run(sample, trials, 0)

			cp := Checkpoint{
				JobNumber:  d.row.JobNumber,
				EndDate:    d.end,
				ActualPct:  analysis.Round1(actual),
				P50:        sim.P50,
				P95:        sim.P95,
				SampleSize: len(history),
			}
			if cp.ActualPct <= sim.P95 {
				cp.WithinBand = true
				hits++
			}
			result.Checkpoints = append(result.Checkpoints, cp)
		}
		history = append(history, actual)
	}

	total := len(result.Checkpoints)
	result.Coverage = analysis.Round1(float64(hits) / float64(total) * 100)
	result.Message = fmt.Sprintf("Calibration: %d/%d (%.1f%%) of actual variances fell at or under the forecast P95.", hits, total, result.Coverage)
	if result.Coverage < 70 && total > 3 {
		result.Message += " Warning: forecast bands look too tight for this history."
	}
	return result
}

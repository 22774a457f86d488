// Package forecast runs bootstrap Monte-Carlo simulations over the historical
// budget-variance sample, per budget size class, and backtests the resulting
// bands against the actual project history.
package forecast

import (
	"math/rand"
	"sort"
	"time"

	"pfpulse/internal/analysis"
	"pfpulse/internal/financials"
)

// DefaultTrials is used when the settings leave the trial count unset.
const DefaultTrials = 5000

// minSampleSize is the smallest variance history a class needs before its
// forecast means anything.
const minSampleSize = 5

// Sample is the variance history (in percent) for one budget size class.
type Sample struct {
	Class     string    `json:"class"`
	Variances []float64 `json:"-"`
}

// Result holds the simulated variance percentiles for one size class.
type Result struct {
	Class        string  `json:"class"`
	Observations int     `json:"observations"`
	Trials       int     `json:"trials"`
	P50          float64 `json:"p50VariancePct"`
	P85          float64 `json:"p85VariancePct"`
	P95          float64 `json:"p95VariancePct"`
	// WithinThresholdProb is the fraction of trials landing at or under the
	// success threshold.
	WithinThresholdProb float64 `json:"withinThresholdProb"`
}

// Report is the full forecast across size classes.
type Report struct {
	Results []Result `json:"results"`
	// Skipped lists classes whose history was too thin to simulate.
	Skipped []string `json:"skipped,omitempty"`
}

// Engine performs the bootstrap simulation.
type Engine struct {
	rng *rand.Rand
}

func NewEngine() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewEngineWithSeed pins the random source. Tests only.
func NewEngineWithSeed(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// BuildSamples groups the tracked projects' variance percentages by budget
// size class.
func BuildSamples(rows []financials.ProjectRow, filters analysis.FilterSet) map[string]Sample {
	samples := map[string]Sample{
		analysis.SizeSmall:  {Class: analysis.SizeSmall},
		analysis.SizeMedium: {Class: analysis.SizeMedium},
		analysis.SizeLarge:  {Class: analysis.SizeLarge},
	}

	for _, row := range analysis.TrackedRows(rows, filters) {
		class := analysis.SizeClass(row.BudgetHours)
		sample := samples[class]
		sample.Variances = append(sample.Variances, analysis.Variance(row.ActualHours, row.BudgetHours)*100)
		samples[class] = sample
	}
	return samples
}

// Run performs the requested number of bootstrap trials over one sample.
// Each trial resamples a single variance observation; percentiles come from
// the sorted trial outcomes. successThresholdPct is the within-budget cutoff
// in percent (e.g. 30 for a 0.30 threshold).
func (e *Engine) Run(sample Sample, trials int, successThresholdPct float64) Result {
	if trials <= 0 {
		trials = DefaultTrials
	}
	result := Result{
		Class:        sample.Class,
		Observations: len(sample.Variances),
		Trials:       trials,
	}
	if len(sample.Variances) == 0 {
		return result
	}

	outcomes := make([]float64, trials)
	within := 0
	for i := 0; i < trials; i++ {
		v := sample.Variances[e.rng.Intn(len(sample.Variances))]
		outcomes[i] = v
		if v <= successThresholdPct {
			within++
		}
	}
	sort.Float64s(outcomes)

	result.P50 = analysis.Round1(outcomes[int(float64(trials)*0.50)])
	result.P85 = analysis.Round1(outcomes[int(float64(trials)*0.85)])
	result.P95 = analysis.Round1(outcomes[int(float64(trials)*0.95)])
	result.WithinThresholdProb = analysis.Round1(float64(within) / float64(trials) * 100)
	return result
}

// Forecast runs the simulation for every size class with enough history.
func (e *Engine) Forecast(rows []financials.ProjectRow, filters analysis.FilterSet, trials int, successThreshold float64) Report {
	samples := BuildSamples(rows, filters)
	thresholdPct := successThreshold * 100

	var report Report
	for _, class := range []string{analysis.SizeSmall, analysis.SizeMedium, analysis.SizeLarge} {
		sample := samples[class]
		if len(sample.Variances) < minSampleSize {
			if len(sample.Variances) > 0 {
				report.Skipped = append(report.Skipped, class)
			}
			continue
		}
		report.Results = append(report.Results, e.Run(sample, trials, thresholdPct))
	}
	return report
}

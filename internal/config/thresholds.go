package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Thresholds controls budget-variance classification. Success and efficiency
// are fractional variance ceilings; green/yellow/red drive export coloring
// only and never influence classification.
type Thresholds struct {
	SuccessThreshold    float64 `json:"success_threshold"`
	EfficiencyThreshold float64 `json:"efficiency_threshold"`
	GreenThreshold      float64 `json:"green_threshold"`
	YellowThreshold     float64 `json:"yellow_threshold"`
	RedThreshold        float64 `json:"red_threshold"`
}

// DateFilter restricts analysis to recent projects. Open/active rows always
// pass regardless of date; only closed rows older than the cutoff drop out.
type DateFilter struct {
	Enabled                 bool   `json:"enable_date_filter"`
	FilterType              string `json:"filter_type"` // "days" or "date"
	DaysFromToday           int    `json:"days_from_today"`
	SpecificDate            string `json:"specific_date"` // YYYY-MM-DD
	ExcludeClosedBeforeDate bool   `json:"exclude_closed_before_date"`
}

// Cutoff resolves the filter to a concrete cutoff instant. The bool is
// false when filtering is disabled or the filter cannot produce a cutoff.
func (f DateFilter) Cutoff(now time.Time) (time.Time, bool) {
	if !f.Enabled || !f.ExcludeClosedBeforeDate {
		return time.Time{}, false
	}
	switch f.FilterType {
	case "days":
		if f.DaysFromToday <= 0 {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, -f.DaysFromToday), true
	case "date":
		t, err := time.Parse("2006-01-02", f.SpecificDate)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// DASSettings configures the delivery-accuracy analysis.
type DASSettings struct {
	ReviewMin            float64 `json:"review_das_min"`
	ReviewMax            float64 `json:"review_das_max"`
	SampleProjects       int     `json:"sample_projects_per_consultant"`
	MinProjectsForReview int     `json:"min_projects_for_review"`
}

// ClientSettings configures customer-level analysis.
type ClientSettings struct {
	MinProjectsThreshold int `json:"min_projects_threshold"`
}

// QualityCheckSettings configures the inconsistent-status project check.
type QualityCheckSettings struct {
	OldProjectDays  int  `json:"old_project_days"`
	IncludeNAStatus bool `json:"include_na_status"`
}

// InsightsSettings configures anomaly detection and forecasting.
type InsightsSettings struct {
	AnomalyThreshold float64 `json:"anomaly_threshold"` // standard deviations
	ForecastTrials   int     `json:"forecast_trials"`
}

// TrendSettings configures period-over-period comparison.
type TrendSettings struct {
	PeriodDays int `json:"period_days"`
}

// AnalysisSettings is the full analysis configuration, persisted as JSON.
type AnalysisSettings struct {
	Thresholds               Thresholds           `json:"thresholds"`
	ProjectFiltering         DateFilter           `json:"project_filtering"`
	DASPlus                  DASSettings          `json:"das_plus_analysis"`
	ClientAnalysis           ClientSettings       `json:"client_analysis"`
	InconsistentProjectCheck QualityCheckSettings `json:"inconsistent_project_check"`
	AdvancedAnalytics        InsightsSettings     `json:"advanced_analytics"`
	Trending                 TrendSettings        `json:"trending_analysis"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() AnalysisSettings {
	return AnalysisSettings{
		Thresholds: Thresholds{
			SuccessThreshold:    0.30,
			EfficiencyThreshold: 0.15,
			GreenThreshold:      -0.10,
			YellowThreshold:     0.10,
			RedThreshold:        0.30,
		},
		ProjectFiltering: DateFilter{
			Enabled:                 false,
			FilterType:              "days",
			DaysFromToday:           90,
			ExcludeClosedBeforeDate: true,
		},
		DASPlus: DASSettings{
			ReviewMin:            0.3,
			ReviewMax:            0.9,
			SampleProjects:       2,
			MinProjectsForReview: 3,
		},
		ClientAnalysis: ClientSettings{
			MinProjectsThreshold: 3,
		},
		InconsistentProjectCheck: QualityCheckSettings{
			OldProjectDays:  730,
			IncludeNAStatus: true,
		},
		AdvancedAnalytics: InsightsSettings{
			AnomalyThreshold: 2.0,
			ForecastTrials:   2000,
		},
		Trending: TrendSettings{
			PeriodDays: 90,
		},
	}
}

// LoadSettings reads the settings file. A missing file yields defaults; a
// present but invalid file is an error.
func LoadSettings(path string) (AnalysisSettings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("No settings file, using defaults")
			return settings, nil
		}
		return settings, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}

	if problems := settings.Validate(); len(problems) > 0 {
		for _, p := range problems {
			log.Error().Str("path", path).Msg(p)
		}
		return DefaultSettings(), fmt.Errorf("settings %s: %d validation problem(s)", path, len(problems))
	}

	return settings, nil
}

// SaveSettings writes the settings file with indentation.
func SaveSettings(path string, settings AnalysisSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// Validate returns human-readable problems, one per violated rule. An empty
// slice means the settings are usable.
func (s AnalysisSettings) Validate() []string {
	var problems []string

	t := s.Thresholds
	if t.EfficiencyThreshold > t.SuccessThreshold {
		problems = append(problems, fmt.Sprintf(
			"efficiency_threshold (%.2f) should be <= success_threshold (%.2f): efficiency uses stricter criteria than general success",
			t.EfficiencyThreshold, t.SuccessThreshold))
	}
	if !(t.GreenThreshold < t.YellowThreshold && t.YellowThreshold < t.RedThreshold) {
		problems = append(problems, fmt.Sprintf(
			"color thresholds must be ordered green < yellow < red, got green=%.2f yellow=%.2f red=%.2f",
			t.GreenThreshold, t.YellowThreshold, t.RedThreshold))
	}

	f := s.ProjectFiltering
	if f.Enabled {
		switch f.FilterType {
		case "days":
			if f.DaysFromToday <= 0 {
				problems = append(problems, fmt.Sprintf(
					"days_from_today (%d) must be positive, e.g. 90 for the last 90 days", f.DaysFromToday))
			}
		case "date":
			if cutoff, err := time.Parse("2006-01-02", f.SpecificDate); err != nil {
				problems = append(problems, fmt.Sprintf(
					"specific_date %q is not in YYYY-MM-DD format", f.SpecificDate))
			} else if cutoff.After(time.Now()) {
				problems = append(problems, fmt.Sprintf(
					"specific_date (%s) cannot be in the future", f.SpecificDate))
			}
		default:
			problems = append(problems, fmt.Sprintf(
				"filter_type %q must be \"days\" or \"date\"", f.FilterType))
		}
	}

	d := s.DASPlus
	if d.ReviewMin < 0 || d.ReviewMin > 1 {
		problems = append(problems, fmt.Sprintf(
			"review_das_min (%.2f) must be between 0.0 and 1.0", d.ReviewMin))
	}
	if d.ReviewMax < 0 || d.ReviewMax > 1 {
		problems = append(problems, fmt.Sprintf(
			"review_das_max (%.2f) must be between 0.0 and 1.0", d.ReviewMax))
	}
	if d.ReviewMin >= d.ReviewMax {
		problems = append(problems, fmt.Sprintf(
			"review_das_min (%.2f) must be < review_das_max (%.2f)", d.ReviewMin, d.ReviewMax))
	}
	if d.SampleProjects <= 0 {
		problems = append(problems, fmt.Sprintf(
			"sample_projects_per_consultant (%d) must be positive", d.SampleProjects))
	}
	if d.MinProjectsForReview <= 0 {
		problems = append(problems, fmt.Sprintf(
			"min_projects_for_review (%d) must be positive", d.MinProjectsForReview))
	}

	if s.ClientAnalysis.MinProjectsThreshold <= 0 {
		problems = append(problems, fmt.Sprintf(
			"min_projects_threshold (%d) must be positive", s.ClientAnalysis.MinProjectsThreshold))
	}
	if s.InconsistentProjectCheck.OldProjectDays <= 0 {
		problems = append(problems, fmt.Sprintf(
			"old_project_days (%d) must be positive, e.g. 365 or 730", s.InconsistentProjectCheck.OldProjectDays))
	}
	if s.AdvancedAnalytics.AnomalyThreshold <= 0 {
		problems = append(problems, fmt.Sprintf(
			"anomaly_threshold (%.2f) must be positive standard deviations", s.AdvancedAnalytics.AnomalyThreshold))
	}
	if s.AdvancedAnalytics.ForecastTrials <= 0 {
		problems = append(problems, fmt.Sprintf(
			"forecast_trials (%d) must be positive", s.AdvancedAnalytics.ForecastTrials))
	}
	if s.Trending.PeriodDays <= 0 {
		problems = append(problems, fmt.Sprintf(
			"period_days (%d) must be positive", s.Trending.PeriodDays))
	}

	return problems
}

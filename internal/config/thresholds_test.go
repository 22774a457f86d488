package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSettingsValidate(t *testing.T) {
	if problems := DefaultSettings().Validate(); len(problems) != 0 {
		t.Fatalf("Defaults must validate cleanly, got: %v", problems)
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	s := DefaultSettings()
	s.Thresholds.EfficiencyThreshold = 0.5 // above success 0.30

	problems := s.Validate()
	if len(problems) != 1 {
		t.Fatalf("Expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "efficiency_threshold") {
		t.Errorf("Problem should name efficiency_threshold: %s", problems[0])
	}
}

func TestValidateColorThresholdOrder(t *testing.T) {
	s := DefaultSettings()
	s.Thresholds.GreenThreshold = 0.2 // above yellow 0.10

	problems := s.Validate()
	found := false
	for _, p := range problems {
		if strings.Contains(p, "green < yellow < red") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected color ordering problem, got: %v", problems)
	}
}

func TestValidateDateFilter(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AnalysisSettings)
		want   string
	}{
		{
			name: "negative days",
			mutate: func(s *AnalysisSettings) {
				s.ProjectFiltering.Enabled = true
				s.ProjectFiltering.FilterType = "days"
				s.ProjectFiltering.DaysFromToday = -5
			},
			want: "days_from_today",
		},
		{
			name: "bad date format",
			mutate: func(s *AnalysisSettings) {
				s.ProjectFiltering.Enabled = true
				s.ProjectFiltering.FilterType = "date"
				s.ProjectFiltering.SpecificDate = "01/02/2025"
			},
			want: "YYYY-MM-DD",
		},
		{
			name: "future date",
			mutate: func(s *AnalysisSettings) {
				s.ProjectFiltering.Enabled = true
				s.ProjectFiltering.FilterType = "date"
				s.ProjectFiltering.SpecificDate = "2099-01-01"
			},
			want: "future",
		},
		{
			name: "unknown filter type",
			mutate: func(s *AnalysisSettings) {
				s.ProjectFiltering.Enabled = true
				s.ProjectFiltering.FilterType = "quarters"
			},
			want: "filter_type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			problems := s.Validate()
			found := false
			for _, p := range problems {
				if strings.Contains(p, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected a problem mentioning %q, got: %v", tc.want, problems)
			}
		})
	}
}

func TestValidateReviewBand(t *testing.T) {
	s := DefaultSettings()
	s.DASPlus.ReviewMin = 0.9
	s.DASPlus.ReviewMax = 0.3

	problems := s.Validate()
	found := false
	for _, p := range problems {
		if strings.Contains(p, "review_das_min") && strings.Contains(p, "<") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected inverted review band problem, got: %v", problems)
	}
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Missing settings file must not error: %v", err)
	}
	if settings.Thresholds.SuccessThreshold != 0.30 {
		t.Errorf("Expected default success threshold 0.30, got %v", settings.Thresholds.SuccessThreshold)
	}
}

func TestLoadSettingsRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	bad := DefaultSettings()
	bad.DASPlus.SampleProjects = 0
	if err := SaveSettings(path, bad); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("Expected validation error for zero sample_projects_per_consultant")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := DefaultSettings()
	in.Thresholds.SuccessThreshold = 0.25
	in.ProjectFiltering.Enabled = true
	in.ProjectFiltering.DaysFromToday = 120

	if err := SaveSettings(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}

	if out.Thresholds.SuccessThreshold != 0.25 {
		t.Errorf("Expected success threshold 0.25, got %v", out.Thresholds.SuccessThreshold)
	}
	if !out.ProjectFiltering.Enabled || out.ProjectFiltering.DaysFromToday != 120 {
		t.Errorf("Date filter settings did not round-trip: %+v", out.ProjectFiltering)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\"success_threshold\": 0.25") {
		t.Errorf("Settings file should be indented JSON, got: %s", data)
	}
}

package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pfpulse/internal/analysis"
	"pfpulse/internal/config"
	"pfpulse/internal/export"
	"pfpulse/internal/financials"
	"pfpulse/internal/forecast"
)

type stubSource struct {
	rows  []financials.ProjectRow
	loads int
}

func (s *stubSource) Load() ([]financials.ProjectRow, error) {
	s.loads++
	return s.rows, nil
}

// newTestService builds a service over a temp data dir and an in-memory row
// source, with a stub workbook file for the mtime check.
func newTestService(t *testing.T, rows []financials.ProjectRow) (*Service, *config.AppConfig, *stubSource) {
	t.Helper()
	dir := t.TempDir()

	workbook := filepath.Join(dir, "workbook.xlsx")
	if err := os.WriteFile(workbook, []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}
	exportDir := filepath.Join(dir, "exports")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.AppConfig{
		DataPath:       dir,
		CacheDir:       "", // no disk cache in tests
		ExportDir:      exportDir,
		WorkbookPath:   workbook,
		HeaderRow:      13,
		RosterDir:      dir,
		ThresholdsPath: filepath.Join(dir, "config.json"),
	}

	source := &stubSource{rows: rows}
	svc := NewWithSource(cfg, source).
		WithForecastEngine(forecast.NewEngineWithSeed(1))
	return svc, cfg, source
}

func serviceRows() []financials.ProjectRow {
	return []financials.ProjectRow{
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 110, ResourcesEngaged: "Alice Smith", SolutionArchitect: "Dana Lee", ProjectStatus: "Closed", Completion: 1},
		{JobNumber: "J2", Customer: "Acme", BudgetHours: 200, ActualHours: 300, ResourcesEngaged: "Bob Jones", ProjectStatus: "Open", Completion: 0.6},
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	svc, _, _ := newTestService(t, serviceRows())

	result, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.TotalProjects != 2 {
		t.Errorf("TotalProjects = %d, want 2", result.TotalProjects)
	}
	if len(result.Consultants) != 2 {
		t.Fatalf("got %d consultants, want 2", len(result.Consultants))
	}
	// Alice lands within the 0.30 default threshold, Bob does not; Alice
	// sorts first on efficiency.
	if result.Consultants[0].Name != "Alice Smith" || result.Consultants[0].SuccessRate != 100 {
		t.Errorf("top consultant wrong: %+v", result.Consultants[0])
	}
}

func TestAnalyzeCombinesDuplicateJobRows(t *testing.T) {
	// The same job split over two export rows (phases) must land as one
	// combined project, not two half-projects.
	rows := []financials.ProjectRow{
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 60, ResourcesEngaged: "Alice Smith", ProjectStatus: "Closed", Completion: 1},
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 60, ResourcesEngaged: "Alice Smith", ProjectStatus: "Closed", Completion: 1},
	}
	svc, _, _ := newTestService(t, rows)

	result, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.TotalProjects != 1 {
		t.Errorf("TotalProjects = %d, want 1 combined project", result.TotalProjects)
	}
	if len(result.Consultants) != 1 {
		t.Fatalf("got %d consultants, want 1", len(result.Consultants))
	}
	alice := result.Consultants[0]
	if alice.Projects != 1 || alice.TotalHours != 120 {
		t.Errorf("combined metrics wrong: projects=%d totalHours=%v, want 1 project with 120 hours",
			alice.Projects, alice.TotalHours)
	}
	if len(alice.ProjectDetails) != 1 || alice.ProjectDetails[0].BudgetHours != 200 {
		t.Errorf("combined detail wrong: %+v", alice.ProjectDetails)
	}
}

func TestAnalyzeAppliesDateFilter(t *testing.T) {
	rows := serviceRows()
	rows[0].EndDate = "2020-01-15" // closed long ago

	svc, cfg, _ := newTestService(t, rows)
	svc.WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })

	settings := config.DefaultSettings()
	settings.ProjectFiltering.Enabled = true
	settings.ProjectFiltering.FilterType = "date"
	settings.ProjectFiltering.SpecificDate = "2024-01-01"
	settings.ProjectFiltering.ExcludeClosedBeforeDate = true
	if err := config.SaveSettings(cfg.ThresholdsPath, settings); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.TotalProjects != 1 {
		t.Errorf("old closed project must be filtered out, got %d projects", result.TotalProjects)
	}
}

func TestExclusionLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t, serviceRows())

	rule := analysis.ExclusionRule{Consultant: "Alice Smith", JobNumber: "J1", Reason: "Shadowing only"}
	if err := svc.AddExclusion(rule); err != nil {
		t.Fatalf("AddExclusion failed: %v", err)
	}
	if err := svc.AddExclusion(rule); err == nil {
		t.Error("duplicate exclusion must be rejected")
	}
	if err := svc.AddExclusion(analysis.ExclusionRule{Consultant: "Bob", JobNumber: "J2"}); err == nil {
		t.Error("exclusion without a reason must be rejected")
	}

	// The excluded contribution disappears from Alice's metrics.
	result, err := svc.Analyze()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range result.Consultants {
		if c.Name == "Alice Smith" {
			t.Errorf("Alice's only project is excluded, she should vanish: %+v", c)
		}
	}
	if len(result.ExcludedProjects) != 1 || result.ExcludedProjects[0].Reason != "Shadowing only" {
		t.Errorf("audit trail wrong: %+v", result.ExcludedProjects)
	}

	if err := svc.RemoveExclusion("alice smith", "J1"); err != nil {
		t.Fatalf("RemoveExclusion failed: %v", err)
	}
	rules, err := svc.Exclusions()
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 0 {
		t.Errorf("rules left after removal: %+v", rules)
	}
}

func TestUpdateSettingsValidates(t *testing.T) {
	svc, _, _ := newTestService(t, serviceRows())

	bad := config.DefaultSettings()
	bad.Thresholds.GreenThreshold = 0.5 // breaks green < yellow < red
	if err := svc.UpdateSettings(bad); err == nil {
		t.Fatal("invalid settings must be rejected")
	}

	good := config.DefaultSettings()
	good.Thresholds.SuccessThreshold = 0.25
	if err := svc.UpdateSettings(good); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	loaded, err := svc.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Thresholds.SuccessThreshold != 0.25 {
		t.Errorf("settings did not round-trip: %+v", loaded.Thresholds)
	}
}

func TestReplaceWorkbookInvalidatesCache(t *testing.T) {
	svc, cfg, source := newTestService(t, serviceRows())

	if _, err := svc.Analyze(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Analyze(); err != nil {
		t.Fatal(err)
	}
	if source.loads != 1 {
		t.Fatalf("expected a single ingest before replacement, got %d", source.loads)
	}

	if err := svc.ReplaceWorkbook(strings.NewReader("new workbook bytes")); err != nil {
		t.Fatalf("ReplaceWorkbook failed: %v", err)
	}
	if _, err := svc.Analyze(); err != nil {
		t.Fatal(err)
	}
	if source.loads != 2 {
		t.Errorf("replacement must force a re-ingest, loads = %d", source.loads)
	}

	data, err := os.ReadFile(cfg.WorkbookPath)
	if err != nil || string(data) != "new workbook bytes" {
		t.Errorf("workbook content not replaced: %q, %v", data, err)
	}
}

func TestExportToDirWritesArtifact(t *testing.T) {
	svc, cfg, _ := newTestService(t, serviceRows())
	svc.WithClock(func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) })

	path, err := svc.ExportToDir(export.ReportConsultants, export.FormatCSV)
	if err != nil {
		t.Fatalf("ExportToDir failed: %v", err)
	}
	if filepath.Base(path) != "consultants-2025-06-15.csv" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Alice Smith") {
		t.Errorf("export content wrong:\n%s", data)
	}
	if filepath.Dir(path) != cfg.ExportDir {
		t.Errorf("artifact outside the export dir: %s", path)
	}
}

func TestVisualUnknownKind(t *testing.T) {
	svc, _, _ := newTestService(t, serviceRows())
	if _, err := svc.Visual("heatmap"); err == nil {
		t.Error("unknown visual kind must error")
	}
}

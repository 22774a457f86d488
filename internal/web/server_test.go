package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pfpulse/internal/analysis"
	"pfpulse/internal/config"
	"pfpulse/internal/financials"
	"pfpulse/internal/service"
)

type stubSource struct {
	rows  []financials.ProjectRow
	loads int
}

func (s *stubSource) Load() ([]financials.ProjectRow, error) {
	s.loads++
	return s.rows, nil
}

func newTestHandler(t *testing.T) (http.Handler, *config.AppConfig, *stubSource) {
	t.Helper()
	dir := t.TempDir()

	workbook := filepath.Join(dir, "workbook.xlsx")
	if err := os.WriteFile(workbook, []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.AppConfig{
		DataPath:       dir,
		ExportDir:      dir,
		WorkbookPath:   workbook,
		RosterDir:      dir,
		ThresholdsPath: filepath.Join(dir, "config.json"),
	}
	source := &stubSource{rows: []financials.ProjectRow{
		{JobNumber: "J1", Customer: "Acme", BudgetHours: 100, ActualHours: 110, ResourcesEngaged: "Alice Smith", SolutionArchitect: "Dana Lee", Completion: 1},
		{JobNumber: "J2", Customer: "Acme", BudgetHours: 200, ActualHours: 320, ResourcesEngaged: "Bob Jones", Completion: 0.5},
	}}

	svc := service.NewWithSource(cfg, source).
		WithClock(func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) })
	return NewServer(svc, "").Handler(), cfg, source
}

func doRequest(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" || payload["version"] == "" {
		t.Errorf("unexpected health payload: %v", payload)
	}
	if payload["snapshotAge"] != "0s" {
		t.Errorf("snapshotAge before any ingest = %q, want 0s", payload["snapshotAge"])
	}

	// After an analysis the snapshot exists and health reports its age.
	if rec := doRequest(t, h, http.MethodGet, "/api/analysis", nil); rec.Code != http.StatusOK {
		t.Fatalf("analysis status = %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/api/health", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["snapshotAge"] == "" {
		t.Error("snapshotAge missing after ingest")
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/analysis", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var result analysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalProjects != 2 || len(result.Consultants) != 2 {
		t.Errorf("unexpected result: projects=%d consultants=%d", result.TotalProjects, len(result.Consultants))
	}
}

func TestReportEndpointUnknownKind(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/reports/heatmap", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestReportEndpointConsultantProjects(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/reports/consultantProjects", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d project rows, want 2", len(rows))
	}
	if rows[0]["consultant"] == "" || rows[0]["jobNumber"] == "" {
		t.Errorf("row missing flattened fields: %v", rows[0])
	}
}

func TestExportEndpointSetsDisposition(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/export?report=consultants&format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "consultants-2025-06-15.csv") {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	if !strings.Contains(rec.Body.String(), "Alice Smith") {
		t.Error("export body missing consultant rows")
	}

	rec = doRequest(t, h, http.MethodGet, "/api/export?report=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus report status = %d, want 400", rec.Code)
	}
}

func TestExclusionEndpoints(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"consultant":"Alice Smith","jobNumber":"J1","reason":"Shadowing only"}`)
	rec := doRequest(t, h, http.MethodPost, "/api/exclusions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d: %s", rec.Code, rec.Body)
	}

	// Missing reason is rejected at the API boundary.
	body = bytes.NewBufferString(`{"consultant":"Bob Jones","jobNumber":"J2"}`)
	rec = doRequest(t, h, http.MethodPost, "/api/exclusions", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reasonless POST status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/exclusions", nil)
	var rules []analysis.ExclusionRule
	if err := json.Unmarshal(rec.Body.Bytes(), &rules); err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || rules[0].Reason != "Shadowing only" {
		t.Errorf("rules = %+v", rules)
	}

	rec = doRequest(t, h, http.MethodDelete, "/api/exclusions?consultant=Alice+Smith&jobNumber=J1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d: %s", rec.Code, rec.Body)
	}
	rec = doRequest(t, h, http.MethodGet, "/api/exclusions", nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("rules left after delete: %s", body)
	}
}

func TestConfigEndpointValidates(t *testing.T) {
	h, _, _ := newTestHandler(t)

	settings := config.DefaultSettings()
	settings.Thresholds.GreenThreshold = 0.5 // breaks green < yellow < red
	payload, _ := json.Marshal(settings)
	rec := doRequest(t, h, http.MethodPut, "/api/config", bytes.NewBuffer(payload))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid settings status = %d, want 400", rec.Code)
	}

	settings = config.DefaultSettings()
	settings.Thresholds.SuccessThreshold = 0.25
	payload, _ = json.Marshal(settings)
	rec = doRequest(t, h, http.MethodPut, "/api/config", bytes.NewBuffer(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/config", nil)
	var loaded config.AnalysisSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.Thresholds.SuccessThreshold != 0.25 {
		t.Errorf("settings did not round-trip: %+v", loaded.Thresholds)
	}
}

func TestWorkbookUpload(t *testing.T) {
	h, cfg, source := newTestHandler(t)

	// Prime the cache so the upload provably invalidates it.
	if rec := doRequest(t, h, http.MethodGet, "/api/analysis", nil); rec.Code != http.StatusOK {
		t.Fatalf("prime status = %d", rec.Code)
	}
	if source.loads != 1 {
		t.Fatalf("loads = %d before upload", source.loads)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("workbook", "updated.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("new workbook bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/workbook", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}

	data, err := os.ReadFile(cfg.WorkbookPath)
	if err != nil || string(data) != "new workbook bytes" {
		t.Errorf("workbook not replaced: %q, %v", data, err)
	}
	if rec := doRequest(t, h, http.MethodGet, "/api/analysis", nil); rec.Code != http.StatusOK {
		t.Fatal("analysis after upload failed")
	}
	if source.loads != 2 {
		t.Errorf("upload must invalidate the row cache, loads = %d", source.loads)
	}
}

func TestVisualEndpoint(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/visuals/risk", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(payload["chart"], "```mermaid") {
		t.Errorf("chart payload wrong: %q", payload["chart"])
	}

	rec = doRequest(t, h, http.MethodGet, "/api/visuals/heatmap", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown visual status = %d, want 404", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodOptions, "/api/analysis", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS origin header missing")
	}
}

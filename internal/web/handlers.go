package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/rs/zerolog/log"

	"pfpulse/internal/analysis"
	"pfpulse/internal/config"
	"pfpulse/internal/export"
)

// Build metadata, stamped via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// maxWorkbookBytes caps uploads; the real workbooks are a few MB.
const maxWorkbookBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"version":     Version,
		"commit":      Commit,
		"buildDate":   BuildDate,
		"go":          runtime.Version(),
		"snapshotAge": s.svc.SnapshotAge().String(),
	})
}

func (s *Server) handleWorkbookUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookBytes)
	if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("workbook")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing workbook part: %w", err))
		return
	}
	defer file.Close()

	if err := s.svc.ReplaceWorkbook(file); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.Info().Str("filename", header.Filename).Int64("bytes", header.Size).Msg("workbook replaced")
	writeJSON(w, http.StatusOK, map[string]string{"status": "replaced", "filename": header.Filename})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Analyze()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := export.ReportKind(r.PathValue("kind"))
	result, err := s.svc.Analyze()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var slice any
	switch kind {
	case export.ReportConsultants:
		slice = result.Consultants
	case export.ReportArchitects:
		slice = result.SolutionArchitects
	case export.ReportCustomers:
		slice = result.Customers
	case export.ReportDAS:
		slice = result.DAS
	case export.ReportCombinations:
		slice = map[string][]analysis.ComboMetrics{
			"saConsultant": result.SACombinations,
			"saCustomer":   result.SACustomerAnalysis,
		}
	case export.ReportConsultantProjects:
		slice = flattenProjects(result)
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown report %q", kind))
		return
	}
	writeJSON(w, http.StatusOK, slice)
}

// consultantProject is one consultant-to-project assignment row.
type consultantProject struct {
	Consultant string `json:"consultant"`
	analysis.ProjectDetail
}

func flattenProjects(result *analysis.Result) []consultantProject {
	var projects []consultantProject
	for _, c := range result.Consultants {
		for _, p := range c.ProjectDetails {
			projects = append(projects, consultantProject{Consultant: c.Name, ProjectDetail: p})
		}
	}
	return projects
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := export.ReportKind(r.URL.Query().Get("report"))
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if !kind.Known() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown report %q", kind))
		return
	}

	filename, data, mime, err := s.svc.Export(kind, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("write export")
	}
}

func (s *Server) handleListExclusions(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.Exclusions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rules == nil {
		rules = []analysis.ExclusionRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleAddExclusion(w http.ResponseWriter, r *http.Request) {
	var rule analysis.ExclusionRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode rule: %w", err))
		return
	}
	if err := s.svc.AddExclusion(rule); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleRemoveExclusion(w http.ResponseWriter, r *http.Request) {
	consultant := r.URL.Query().Get("consultant")
	jobNumber := r.URL.Query().Get("jobNumber")
	if consultant == "" || jobNumber == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("consultant and jobNumber query params are required"))
		return
	}
	if err := s.svc.RemoveExclusion(consultant, jobNumber); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var settings config.AnalysisSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode settings: %w", err))
		return
	}
	if err := s.svc.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	s.report(w, func() (any, error) { return s.svc.Insights() })
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	s.report(w, func() (any, error) { return s.svc.Trends() })
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	s.report(w, func() (any, error) { return s.svc.Forecast() })
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	s.report(w, func() (any, error) { return s.svc.Quality() })
}

func (s *Server) report(w http.ResponseWriter, load func() (any, error)) {
	value, err := load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (s *Server) handleVisual(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	chart, err := s.svc.Visual(kind)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"kind": kind, "chart": chart})
}

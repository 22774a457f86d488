// Package service wires the boundary collaborators (workbook source, row
// cache, roster files, settings) around the pure analysis engine.
package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pfpulse/internal/analysis"
	"pfpulse/internal/config"
	"pfpulse/internal/financials"
	"pfpulse/internal/forecast"
	"pfpulse/internal/roster"
	"pfpulse/internal/rowcache"
)

// Service is the application facade. Every call re-reads its inputs (through
// the mtime-guarded row cache), so edits to the workbook, roster, or settings
// show up on the next analysis without a restart.
type Service struct {
	cfg      *config.AppConfig
	provider *rowcache.Provider
	engine   *forecast.Engine
	now      func() time.Time
}

// New builds the service against the configured workbook.
func New(cfg *config.AppConfig) *Service {
	source := financials.NewWorkbookReader(cfg.WorkbookPath, cfg.HeaderRow)
	return NewWithSource(cfg, source)
}

// NewWithSource injects the row source. Tests use this to bypass XLSX I/O.
func NewWithSource(cfg *config.AppConfig, source financials.RowSource) *Service {
	cachePath := ""
	if cfg.CacheDir != "" {
		cachePath = filepath.Join(cfg.CacheDir, "rows.jsonl")
	}
	return &Service{
		cfg:      cfg,
		provider: rowcache.NewProvider(source, rowcache.NewStore(), cfg.WorkbookPath, cachePath),
		engine:   forecast.NewEngine(),
		now:      time.Now,
	}
}

// WithClock pins the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithForecastEngine swaps the simulation engine, letting tests seed it.
func (s *Service) WithForecastEngine(engine *forecast.Engine) *Service {
	s.engine = engine
	return s
}

// Config exposes the resolved application configuration.
func (s *Service) Config() *config.AppConfig {
	return s.cfg
}

// SnapshotAge reports how long ago the row snapshot was (re)loaded. Zero
// until the first ingest.
func (s *Service) SnapshotAge() time.Duration {
	return s.provider.SnapshotAge()
}

// inputs is one consistent snapshot of everything an analysis needs.
type inputs struct {
	rows     []financials.ProjectRow
	rosters  roster.Rosters
	settings config.AnalysisSettings
}

// loadInputs gathers rows, roster, and settings concurrently. The three
// sources are independent files, so the fan-out cuts cold-start latency to
// the slowest of them (the workbook).
func (s *Service) loadInputs() (inputs, error) {
	var in inputs

	var g errgroup.Group
	g.Go(func() error {
		rows, err := s.provider.Rows()
		if err != nil {
			return err
		}
		in.rows = rows
		return nil
	})
	g.Go(func() error {
		rosters, err := roster.Load(s.cfg.RosterDir)
		if err != nil {
			return err
		}
		in.rosters = rosters
		return nil
	})
	g.Go(func() error {
		settings, err := config.LoadSettings(s.cfg.ThresholdsPath)
		if err != nil {
			return err
		}
		in.settings = settings
		return nil
	})
	if err := g.Wait(); err != nil {
		return in, err
	}

	// Exports repeat a job across phases and re-runs; merge those before
	// anything downstream counts projects or hours.
	in.rows = financials.CombineDuplicateJobs(in.rows)

	if cutoff, ok := in.settings.ProjectFiltering.Cutoff(s.now()); ok {
		in.rows, _ = financials.ApplyDateFilter(in.rows, cutoff)
	}
	return in, nil
}

// Analyze runs the full analysis over the current inputs.
func (s *Service) Analyze() (*analysis.Result, error) {
	in, err := s.loadInputs()
	if err != nil {
		return nil, fmt.Errorf("load analysis inputs: %w", err)
	}

	started := s.now()
	result := analysis.Analyze(in.rows, analysis.Options{
		Filters:      in.rosters.Filters,
		Disqualified: in.rosters.Disqualified,
		Settings:     in.settings,
	})

	log.Info().
		Int("rows", len(in.rows)).
		Int("consultants", len(result.Consultants)).
		Dur("took", s.now().Sub(started)).
		Msg("Analysis complete")
	return result, nil
}

// Insights runs the size-class and anomaly report.
func (s *Service) Insights() (analysis.Insights, error) {
	in, err := s.loadInputs()
	if err != nil {
		return analysis.Insights{}, err
	}
	return analysis.ComputeInsights(in.rows, in.rosters.Filters, in.settings), nil
}

// Trends runs the period-over-period comparison.
func (s *Service) Trends() (analysis.TrendReport, error) {
	in, err := s.loadInputs()
	if err != nil {
		return analysis.TrendReport{}, err
	}
	return analysis.ComputeTrends(in.rows, in.rosters.Filters, in.settings, s.now()), nil
}

// Quality runs the inconsistent-status check.
func (s *Service) Quality() (analysis.QualityReport, error) {
	in, err := s.loadInputs()
	if err != nil {
		return analysis.QualityReport{}, err
	}
	return analysis.CheckQuality(in.rows, in.settings.InconsistentProjectCheck, s.now()), nil
}

// Forecast runs the bootstrap variance simulation per size class.
func (s *Service) Forecast() (forecast.Report, error) {
	in, err := s.loadInputs()
	if err != nil {
		return forecast.Report{}, err
	}
	return s.engine.Forecast(
		in.rows, in.rosters.Filters,
		in.settings.AdvancedAnalytics.ForecastTrials,
		in.settings.Thresholds.SuccessThreshold,
	), nil
}

// Backtest replays history to calibrate the forecast bands.
func (s *Service) Backtest() (forecast.BacktestResult, error) {
	in, err := s.loadInputs()
	if err != nil {
		return forecast.BacktestResult{}, err
	}
	return s.engine.Backtest(in.rows, in.rosters.Filters, in.settings.AdvancedAnalytics.ForecastTrials), nil
}

// Settings reads the current analysis settings.
func (s *Service) Settings() (config.AnalysisSettings, error) {
	return config.LoadSettings(s.cfg.ThresholdsPath)
}

// UpdateSettings validates and persists new analysis settings.
func (s *Service) UpdateSettings(settings config.AnalysisSettings) error {
	if problems := settings.Validate(); len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return config.SaveSettings(s.cfg.ThresholdsPath, settings)
}

// Exclusions lists the current exclusion rules.
func (s *Service) Exclusions() ([]analysis.ExclusionRule, error) {
	return roster.LoadExclusions(s.exclusionsPath())
}

// AddExclusion appends a rule and persists the list.
func (s *Service) AddExclusion(rule analysis.ExclusionRule) error {
	if strings.TrimSpace(rule.Consultant) == "" || strings.TrimSpace(rule.JobNumber) == "" {
		return fmt.Errorf("exclusion needs both a consultant and a job number")
	}
	if strings.TrimSpace(rule.Reason) == "" {
		return fmt.Errorf("exclusion for %s/%s needs a reason", rule.Consultant, rule.JobNumber)
	}

	rules, err := roster.LoadExclusions(s.exclusionsPath())
	if err != nil {
		return err
	}
	for _, existing := range rules {
		if strings.EqualFold(existing.Consultant, rule.Consultant) && existing.JobNumber == rule.JobNumber {
			return fmt.Errorf("exclusion for %s/%s already exists", rule.Consultant, rule.JobNumber)
		}
	}
	rules = append(rules, rule)
	return roster.SaveExclusions(s.exclusionsPath(), rules)
}

// RemoveExclusion drops a rule and persists the list. Removing a rule that
// does not exist is not an error.
func (s *Service) RemoveExclusion(consultant, jobNumber string) error {
	rules, err := roster.LoadExclusions(s.exclusionsPath())
	if err != nil {
		return err
	}

	kept := rules[:0]
	for _, rule := range rules {
		if strings.EqualFold(rule.Consultant, consultant) && rule.JobNumber == jobNumber {
			continue
		}
		kept = append(kept, rule)
	}
	if len(kept) == len(rules) {
		return nil
	}
	return roster.SaveExclusions(s.exclusionsPath(), kept)
}

// ReplaceWorkbook swaps the source spreadsheet and invalidates the row
// snapshot so the next analysis re-ingests.
func (s *Service) ReplaceWorkbook(r io.Reader) error {
	tmpPath := s.cfg.WorkbookPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpPath, s.cfg.WorkbookPath); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}

	s.provider.Invalidate()
	log.Info().Str("path", s.cfg.WorkbookPath).Msg("Workbook replaced, row cache invalidated")
	return nil
}

func (s *Service) exclusionsPath() string {
	return filepath.Join(s.cfg.RosterDir, roster.ExclusionsFile)
}

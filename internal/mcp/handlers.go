package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pfpulse/internal/analysis"
	"pfpulse/internal/export"
	"pfpulse/internal/forecast"
	"pfpulse/internal/visuals"
)

func (s *Server) handleRunAnalysis(ctx context.Context, req *mcpsdk.CallToolRequest, input RunAnalysisInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	result, err := s.svc.Analyze()
	if err != nil {
		return errorResult(err)
	}

	var chart string
	if s.mermaidCharts {
		chart = visuals.GenerateEfficiencyChart(result.Consultants)
	}
	return jsonResult(result, chart)
}

func (s *Server) handleGetReport(ctx context.Context, req *mcpsdk.CallToolRequest, input ReportInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	result, err := s.svc.Analyze()
	if err != nil {
		return errorResult(err)
	}

	var slice any
	var chart string
	switch export.ReportKind(input.Report) {
	case export.ReportConsultants:
		slice = result.Consultants
		if s.mermaidCharts {
			chart = visuals.GenerateEfficiencyChart(result.Consultants)
		}
	case export.ReportArchitects:
		slice = result.SolutionArchitects
	case export.ReportCustomers:
		slice = result.Customers
		if s.mermaidCharts {
			chart = visuals.GenerateRiskPie(result.Customers.Practice)
		}
	case export.ReportDAS:
		slice = result.DAS
		if s.mermaidCharts {
			chart = visuals.GenerateDASChart(result.DAS)
		}
	case export.ReportCombinations:
		slice = map[string][]analysis.ComboMetrics{
			"saConsultant": result.SACombinations,
			"saCustomer":   result.SACustomerAnalysis,
		}
	case export.ReportConsultantProjects:
		slice = consultantProjects(result)
	default:
		return errorResult(fmt.Errorf("unknown report %q", input.Report))
	}

	return jsonResult(slice, chart)
}

func (s *Server) handleGetCustomerRisk(ctx context.Context, req *mcpsdk.CallToolRequest, input CustomerRiskInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	result, err := s.svc.Analyze()
	if err != nil {
		return errorResult(err)
	}

	var customers []analysis.CustomerMetrics
	switch input.Scope {
	case "", "practice":
		customers = result.Customers.Practice
	case "company":
		customers = result.Customers.Company
	default:
		return errorResult(fmt.Errorf("unknown scope %q, want practice or company", input.Scope))
	}

	var chart string
	if s.mermaidCharts {
		chart = visuals.GenerateRiskPie(customers)
	}
	return jsonResult(customers, chart)
}

func (s *Server) handleGetForecast(ctx context.Context, req *mcpsdk.CallToolRequest, input ForecastInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	report, err := s.svc.Forecast()
	if err != nil {
		return errorResult(err)
	}

	var chart string
	if s.mermaidCharts {
		chart = visuals.GenerateForecastChart(report)
	}

	if !input.Backtest {
		return jsonResult(report, chart)
	}

	backtest, err := s.svc.Backtest()
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(struct {
		Forecast forecast.Report         `json:"forecast"`
		Backtest forecast.BacktestResult `json:"backtest"`
	}{report, backtest}, chart)
}

func (s *Server) handleExportReport(ctx context.Context, req *mcpsdk.CallToolRequest, input ExportInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	format := input.Format
	if format == "" {
		format = export.FormatCSV
	}

	kind := export.ReportKind(input.Report)
	if !kind.Known() {
		return errorResult(fmt.Errorf("unknown report %q", input.Report))
	}

	path, err := s.svc.ExportToDir(kind, format)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"path": path})
}

// consultantProjects flattens the per-consultant project details.
func consultantProjects(result *analysis.Result) []map[string]any {
	var projects []map[string]any
	for _, c := range result.Consultants {
		for _, p := range c.ProjectDetails {
			projects = append(projects, map[string]any{
				"consultant":  c.Name,
				"jobNumber":   p.JobNumber,
				"description": p.JobDescription,
				"customer":    p.Customer,
				"budgetHours": p.BudgetHours,
				"actualHours": p.ActualHours,
				"variancePct": p.VariancePct,
				"status":      p.Status,
				"completion":  p.Completion,
			})
		}
	}
	return projects
}

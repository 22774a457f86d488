package service

import (
	"fmt"

	"pfpulse/internal/visuals"
)

// Visual chart kinds.
const (
	VisualRisk       = "risk"
	VisualEfficiency = "efficiency"
	VisualDAS        = "das"
	VisualForecast   = "forecast"
)

// Visual renders one Mermaid chart over the current analysis.
func (s *Service) Visual(kind string) (string, error) {
	switch kind {
	case VisualRisk:
		result, err := s.Analyze()
		if err != nil {
			return "", err
		}
		return visuals.GenerateRiskPie(result.Customers.Practice), nil

	case VisualEfficiency:
		result, err := s.Analyze()
		if err != nil {
			return "", err
		}
		return visuals.GenerateEfficiencyChart(result.Consultants), nil

	case VisualDAS:
		result, err := s.Analyze()
		if err != nil {
			return "", err
		}
		return visuals.GenerateDASChart(result.DAS), nil

	case VisualForecast:
		report, err := s.Forecast()
		if err != nil {
			return "", err
		}
		return visuals.GenerateForecastChart(report), nil
	}
	return "", fmt.Errorf("unknown visual %q, want risk, efficiency, das, or forecast", kind)
}

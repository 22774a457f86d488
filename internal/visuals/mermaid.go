// Package visuals renders analysis reports as Mermaid chart blocks for the
// MCP tools and the dashboard.
package visuals

import (
	"fmt"
	"math"
	"strings"

	"pfpulse/internal/analysis"
	"pfpulse/internal/forecast"
)

// chartBarLimit caps bar charts; Mermaid's layout engine starts overlapping
// labels past roughly this many categories.
const chartBarLimit = 20

// GenerateRiskPie creates a Mermaid pie chart of customers per risk bucket.
func GenerateRiskPie(customers []analysis.CustomerMetrics) string {
	if len(customers) == 0 {
		return ""
	}

	counts := map[string]int{}
	for _, c := range customers {
		counts[c.RiskLevel]++
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Customer Risk Distribution\n")
	for _, level := range []string{analysis.RiskLow, analysis.RiskMedium, analysis.RiskHigh, analysis.RiskCritical} {
		if counts[level] > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", level, counts[level]))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateEfficiencyChart creates a Mermaid bar chart of consultant
// efficiency scores, highest first.
func GenerateEfficiencyChart(consultants []analysis.ConsultantMetrics) string {
	if len(consultants) == 0 {
		return ""
	}

	limit := len(consultants)
	if limit > chartBarLimit {
		limit = chartBarLimit
	}

	var labels []string
	var values []string
	for _, c := range consultants[:limit] {
		// Replace spaces to help mermaid rendering
		safeName := strings.ReplaceAll(c.Name, " ", "_")
		labels = append(labels, fmt.Sprintf("\"%s\"", safeName))
		values = append(values, fmt.Sprintf("%.1f", c.EfficiencyScore))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Consultant Efficiency (Top %d)\"\n", limit))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Efficiency Score\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateDASChart creates a Mermaid bar chart of average delivery-accuracy
// scores per consultant.
func GenerateDASChart(das analysis.DASAnalysis) string {
	if len(das.Consultants) == 0 {
		return ""
	}

	limit := len(das.Consultants)
	if limit > chartBarLimit {
		limit = chartBarLimit
	}

	var labels []string
	var values []string
	for _, c := range das.Consultants[:limit] {
		safeName := strings.ReplaceAll(c.Name, " ", "_")
		labels = append(labels, fmt.Sprintf("\"%s\"", safeName))
		values = append(values, fmt.Sprintf("%.2f", c.AvgDAS))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Delivery Accuracy (Avg DAS+)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"DAS+ Score\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateForecastChart creates a Mermaid bar chart of the simulated
// variance percentiles per size class.
func GenerateForecastChart(report forecast.Report) string {
	if len(report.Results) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for _, r := range report.Results {
		for _, band := range []struct {
			pct   string
			value float64
		}{
			{"P50", r.P50},
			{"P85", r.P85},
			{"P95", r.P95},
		} {
			labels = append(labels, fmt.Sprintf("\"%s %s\"", r.Class, band.pct))
			values = append(values, fmt.Sprintf("%.1f", band.value))
			if band.value > maxVal {
				maxVal = band.value
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Variance Forecast (Bootstrap Percentiles)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Variance %%\" 0 --> %d\n", int(math.Ceil(maxVal*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// Package mcp exposes the analysis engine as Model Context Protocol tools
// over stdio transport.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pfpulse/internal/service"
)

const (
	serverName    = "pfpulse"
	serverVersion = "1.0.0"
)

// Server wraps the MCP SDK server with the analysis tool registrations.
type Server struct {
	inner *mcpsdk.Server
	svc   *service.Service
	// mermaidCharts appends Mermaid chart blocks to report responses when
	// the deployment opts in.
	mermaidCharts bool
}

// NewServer creates the MCP server with all tools registered.
func NewServer(svc *service.Service, mermaidCharts bool) *Server {
	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	s := &Server{inner: inner, svc: svc, mermaidCharts: mermaidCharts}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is canceled or the peer
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.inner.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name: "run_analysis",
		Description: "Run the full project-financials analysis: consultant, solution architect, " +
			"and customer metrics, DAS+ delivery accuracy, SA pairings, and the composite quarter ranking.",
	}, s.handleRunAnalysis)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        "get_report",
		Description: "Fetch one report slice from the analysis result.",
		InputSchema: reportInputSchema(),
	}, s.handleGetReport)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name: "get_customer_risk",
		Description: "Get risk-scored customer metrics. Each customer carries a 0-11 risk score " +
			"bucketed into Low/Medium/High/Critical.",
	}, s.handleGetCustomerRisk)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name: "get_forecast",
		Description: "Run the bootstrap Monte Carlo variance forecast per budget size class, " +
			"with P50/P85/P95 variance bands and within-threshold probability.",
	}, s.handleGetForecast)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        "export_report",
		Description: "Export one report to the export directory as CSV or XLSX and return the file path.",
	}, s.handleExportReport)
}

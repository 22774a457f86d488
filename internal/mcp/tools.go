package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pfpulse/internal/export"
)

// Input types. Struct tags generate the JSON schemas; get_report carries an
// explicit schema so the report kind is a closed enum at the protocol level.

// RunAnalysisInput has no parameters; the analysis always runs over the
// configured workbook and roster.
type RunAnalysisInput struct{}

// ReportInput selects one report slice.
type ReportInput struct {
	Report string `json:"report" jsonschema:"report kind to fetch"`
}

// CustomerRiskInput optionally narrows the risk report to one scope.
type CustomerRiskInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"customer scope: practice (default) or company"`
}

// ForecastInput optionally adds the calibration backtest.
type ForecastInput struct {
	Backtest bool `json:"backtest,omitempty" jsonschema:"also replay history to calibrate the forecast bands"`
}

// ExportInput names the report and format to write.
type ExportInput struct {
	Report string `json:"report"           jsonschema:"report kind to export, or everything"`
	Format string `json:"format,omitempty" jsonschema:"csv (default) or xlsx"`
}

// ToolOutput is the structured-output wrapper shared by all tools.
type ToolOutput struct {
	Data any `json:"data"`
}

// reportInputSchema constrains the report parameter to the known kinds.
func reportInputSchema() *jsonschema.Schema {
	kinds := make([]any, 0, len(export.Kinds))
	for _, k := range export.Kinds {
		kinds = append(kinds, string(k))
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"report": {
				Type:        "string",
				Description: "report kind to fetch",
				Enum:        kinds,
			},
		},
		Required: []string{"report"},
	}
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content. Extra texts
// (Mermaid charts) are appended as additional content blocks.
func jsonResult(value any, extraTexts ...string) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	content := []mcpsdk.Content{
		&mcpsdk.TextContent{Text: string(data)},
	}
	for _, text := range extraTexts {
		if text != "" {
			content = append(content, &mcpsdk.TextContent{Text: text})
		}
	}

	return &mcpsdk.CallToolResult{Content: content}, ToolOutput{Data: value}, nil
}

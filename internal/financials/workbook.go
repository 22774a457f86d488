package financials

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// RowSource supplies the ordered project rows for analysis.
type RowSource interface {
	Load() ([]ProjectRow, error)
}

// WorkbookReader reads project rows from an XLSX export. The header row
// index is 1-based and configurable because the export carries a report
// banner above the real column headers.
type WorkbookReader struct {
	Path      string
	HeaderRow int
}

// NewWorkbookReader creates a reader for the given workbook path.
func NewWorkbookReader(path string, headerRow int) *WorkbookReader {
	if headerRow < 1 {
		headerRow = 1
	}
	return &WorkbookReader{Path: path, HeaderRow: headerRow}
}

// columnMap holds resolved 0-based column indexes, -1 when absent.
type columnMap struct {
	jobNumber      int
	jobDescription int
	customer       int
	budgetHours    int
	actualHours    int
	resources      int
	architect      int
	projectStatus  int
	jobStatus      int
	completion     int
	endDate        int
}

// resolveColumns matches headers by case-insensitive keyword containment,
// tolerating the naming drift across export versions.
func resolveColumns(headers []string) columnMap {
	cols := columnMap{
		jobNumber: -1, jobDescription: -1, customer: -1,
		budgetHours: -1, actualHours: -1, resources: -1, architect: -1,
		projectStatus: -1, jobStatus: -1, completion: -1, endDate: -1,
	}

	has := func(h string, words ...string) bool {
		for _, w := range words {
			if !strings.Contains(h, w) {
				return false
			}
		}
		return true
	}

	for i, raw := range headers {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.jobNumber < 0 && has(h, "job", "number"):
			cols.jobNumber = i
		case cols.jobDescription < 0 && has(h, "description"):
			cols.jobDescription = i
		case cols.budgetHours < 0 && has(h, "budget", "hrs"):
			cols.budgetHours = i
		case cols.budgetHours < 0 && has(h, "budget", "hours"):
			cols.budgetHours = i
		case cols.actualHours < 0 && has(h, "total", "posted"):
			cols.actualHours = i
		case cols.actualHours < 0 && has(h, "actual", "hrs"):
			cols.actualHours = i
		case cols.resources < 0 && has(h, "resource", "engaged"):
			cols.resources = i
		case cols.architect < 0 && has(h, "solution", "architect"):
			cols.architect = i
		case cols.jobStatus < 0 && has(h, "job", "status"):
			cols.jobStatus = i
		case cols.projectStatus < 0 && has(h, "status"):
			cols.projectStatus = i
		case cols.completion < 0 && has(h, "complete"):
			cols.completion = i
		case cols.endDate < 0 && has(h, "end", "date"):
			cols.endDate = i
		case cols.customer < 0 && has(h, "customer"):
			cols.customer = i
		}
	}
	return cols
}

// missingRequired lists required columns absent from the header row.
func (c columnMap) missingRequired() []string {
	var missing []string
	if c.jobNumber < 0 {
		missing = append(missing, "Job Number")
	}
	if c.budgetHours < 0 {
		missing = append(missing, "Budget Hrs")
	}
	if c.actualHours < 0 {
		missing = append(missing, "Total Hrs Posted")
	}
	if c.resources < 0 {
		missing = append(missing, "Resources Engaged")
	}
	return missing
}

func cell(vals []string, idx int) string {
	if idx < 0 || idx >= len(vals) {
		return ""
	}
	return strings.TrimSpace(vals[idx])
}

// Load streams the first sheet and maps every data row below the header
// into a ProjectRow. Cancelled rows and rows without a job number are
// dropped here; all numeric coercion is lenient (bad cells become 0).
func (w *WorkbookReader) Load() ([]ProjectRow, error) {
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", w.Path)
	}
	sheet := sheets[0]

	r, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("stream sheet %s: %w", sheet, err)
	}
	defer r.Close()

	var (
		rows      []ProjectRow
		cols      columnMap
		rowIdx    int
		cancelled int
		blank     int
	)

	for r.Next() {
		rowIdx++
		if rowIdx < w.HeaderRow {
			continue
		}

		vals, err := r.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowIdx, err)
		}

		if rowIdx == w.HeaderRow {
			cols = resolveColumns(vals)
			if missing := cols.missingRequired(); len(missing) > 0 {
				return nil, fmt.Errorf("header row %d missing required columns: %s",
					w.HeaderRow, strings.Join(missing, ", "))
			}
			continue
		}

		jobNumber := cell(vals, cols.jobNumber)
		if jobNumber == "" {
			blank++
			continue
		}

		status := cell(vals, cols.projectStatus)
		if isCancelledStatus(status) {
			cancelled++
			continue
		}

		rows = append(rows, ProjectRow{
			JobNumber:         jobNumber,
			JobDescription:    cell(vals, cols.jobDescription),
			Customer:          cell(vals, cols.customer),
			BudgetHours:       ParseNumber(cell(vals, cols.budgetHours)),
			ActualHours:       ParseNumber(cell(vals, cols.actualHours)),
			ResourcesEngaged:  cell(vals, cols.resources),
			SolutionArchitect: cell(vals, cols.architect),
			ProjectStatus:     status,
			JobStatus:         cell(vals, cols.jobStatus),
			Completion:        ParseCompletion(cell(vals, cols.completion)),
			EndDate:           cell(vals, cols.endDate),
		})
	}
	if err := r.Error(); err != nil {
		return nil, fmt.Errorf("stream sheet %s: %w", sheet, err)
	}

	log.Info().
		Str("workbook", w.Path).
		Str("sheet", sheet).
		Int("rows", len(rows)).
		Int("cancelled", cancelled).
		Int("blank", blank).
		Msg("Workbook loaded")

	return rows, nil
}

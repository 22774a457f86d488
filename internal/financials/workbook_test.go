package financials

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeTestWorkbook builds a small export-shaped workbook: banner rows,
// headers at the given row, then data rows.
func writeTestWorkbook(t *testing.T, headerRow int, headers []string, data [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", "Project Financials Export"); err != nil {
		t.Fatal(err)
	}
	for i, h := range headers {
		cellRef, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue(sheet, cellRef, h); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range data {
		for c, v := range row {
			cellRef, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "financials.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

var testHeaders = []string{
	"Job Number", "Job Description", "Customer", "Budget Hrs",
	"Total Hrs Posted", "Resources Engaged", "Solution Architect",
	"Project Status", "Job Status", "Project Complete %", "End Date",
}

func TestWorkbookReaderLoad(t *testing.T) {
	path := writeTestWorkbook(t, 3, testHeaders, [][]interface{}{
		{"J100", "Migration", "Acme", "120", "95.5", "Alice Smith, Bob Jones", "Dan Field", "Open", "Open", "0.6", "6/30/25"},
		{"J101", "Upgrade", "Globex", "$1,000", "1,250", "Carol White", "", "Closed", "Closed", "100", "2025-05-01"},
		{"J102", "Cancelled work", "Initech", "50", "10", "Alice Smith", "", "Cancelled", "Open", "0.1", ""},
		{"", "", "", "", "", "", "", "", "", "", ""},
	})

	rows, err := NewWorkbookReader(path, 3).Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows (cancelled and blank dropped), got %d", len(rows))
	}

	j100 := rows[0]
	if j100.JobNumber != "J100" || j100.Customer != "Acme" {
		t.Errorf("Row identity wrong: %+v", j100)
	}
	if j100.BudgetHours != 120 || j100.ActualHours != 95.5 {
		t.Errorf("Expected hours 120/95.5, got %v/%v", j100.BudgetHours, j100.ActualHours)
	}
	if j100.ResourcesEngaged != "Alice Smith, Bob Jones" {
		t.Errorf("Resources field wrong: %q", j100.ResourcesEngaged)
	}
	if j100.Completion != 0.6 {
		t.Errorf("Expected completion 0.6, got %v", j100.Completion)
	}

	j101 := rows[1]
	if j101.BudgetHours != 1000 || j101.ActualHours != 1250 {
		t.Errorf("Lenient numeric parse failed: %v/%v", j101.BudgetHours, j101.ActualHours)
	}
	if j101.Completion != 1 {
		t.Errorf("Expected percentage completion normalized to 1, got %v", j101.Completion)
	}
}

func TestWorkbookReaderMissingColumns(t *testing.T) {
	path := writeTestWorkbook(t, 1, []string{"Job Number", "Customer"}, nil)

	_, err := NewWorkbookReader(path, 1).Load()
	if err == nil {
		t.Fatal("Expected error for missing required columns")
	}
	for _, want := range []string{"Budget Hrs", "Total Hrs Posted", "Resources Engaged"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error should name missing column %q: %v", want, err)
		}
	}
}

func TestWorkbookReaderMissingFile(t *testing.T) {
	_, err := NewWorkbookReader(filepath.Join(t.TempDir(), "nope.xlsx"), 1).Load()
	if err == nil {
		t.Fatal("Expected error for missing workbook")
	}
}

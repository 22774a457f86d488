package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pfpulse/internal/analysis"
	"pfpulse/internal/config"
)

// Fill colors for variance cells, matching the dashboard palette.
const (
	fillGreen  = "90EE90"
	fillYellow = "FFFF99"
	fillRed    = "FF6B6B"
)

// varianceStyles holds the style IDs registered on one workbook.
type varianceStyles struct {
	green, yellow, red int
}

func newVarianceStyles(f *excelize.File) (varianceStyles, error) {
	var s varianceStyles
	var err error

	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
	}
	if s.green, err = fill(fillGreen); err != nil {
		return s, err
	}
	if s.yellow, err = fill(fillYellow); err != nil {
		return s, err
	}
	if s.red, err = fill(fillRed); err != nil {
		return s, err
	}
	return s, nil
}

// pick maps a variance percent onto a style ID. The rule mirrors the
// dashboard: under green is good, over red is bad, over yellow is a warning,
// and the band between green and yellow stays unstyled.
func (s varianceStyles) pick(variancePct float64, th config.Thresholds) (int, bool) {
	switch {
	case variancePct < th.GreenThreshold*100:
		return s.green, true
	case variancePct > th.RedThreshold*100:
		return s.red, true
	case variancePct > th.YellowThreshold*100:
		return s.yellow, true
	}
	return 0, false
}

// XLSX serializes one report as a single-sheet workbook.
func XLSX(kind ReportKind, result *analysis.Result, th config.Thresholds) ([]byte, error) {
	return writeWorkbook([]table{buildTable(kind, result)}, th)
}

// XLSXEverything bundles every report into one multi-sheet workbook.
func XLSXEverything(result *analysis.Result, th config.Thresholds) ([]byte, error) {
	return writeWorkbook(buildAllTables(result), th)
}

func writeWorkbook(tables []table, th config.Thresholds) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newVarianceStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("register header style: %w", err)
	}

	for i, t := range tables {
		sheet := t.title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("name sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("add sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, t, th, styles, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, t table, th config.Thresholds, styles varianceStyles, headerStyle int) error {
	for col, name := range t.header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}

			if col == t.varianceCol {
				if pct, ok := value.(float64); ok {
					if styleID, tinted := styles.pick(pct, th); tinted {
						if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// Package engine generates a deterministic synthetic project financials
// workbook plus the roster files the analysis expects, for demos and tests.
package engine

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pfpulse/internal/analysis"
	"pfpulse/internal/roster"
)

type GeneratorConfig struct {
	Seed        int64
	Projects    int
	Consultants int
	Architects  int
	Customers   int
	Now         time.Time
}

// Dataset is everything one generation run produces.
type Dataset struct {
	Rows       [][]any
	Engineers  []string
	Architects []string
	Exclusions []analysis.ExclusionRule
}

// headerRow is where the column headers land; the rows above carry the
// report banner the real export has.
const headerRow = 13

var headers = []string{
	"Job Number", "Description", "Customer", "Budget Hrs", "Total Hrs Posted",
	"Resources Engaged", "Solution Architect", "Status", "Job Status",
	"Complete %", "End Date",
}

var (
	firstNames = []string{
		"Alice", "Bob", "Carol", "Dana", "Erik", "Fiona", "Gustav", "Hanna",
		"Ivan", "Julia", "Karl", "Lena", "Marco", "Nadia", "Oskar", "Petra",
	}
	lastNames = []string{
		"Smith", "Jones", "Keller", "Lindgren", "Mayer", "Novak", "Olsen",
		"Petrov", "Quinn", "Richter", "Schulz", "Tanaka", "Ueda", "Vogel",
	}
	companies = []string{
		"Acme Logistics", "Borealis Energy", "Cygnus Retail", "Delta Freight",
		"Eventide Media", "Ferrum Steel", "Glacier Foods", "Helios Pharma",
		"Ionia Telecom", "Juniper Banking",
	}
	descriptions = []string{
		"Network segmentation rollout", "Data center migration",
		"Firewall refresh", "Wireless site survey", "SD-WAN pilot",
		"Identity platform upgrade", "Backup redesign", "Cloud landing zone",
		"Monitoring consolidation", "Storage expansion",
	}
	statuses = []string{"Closed", "Open", "In Progress", "Delivered"}
)

func pickNames(rng *rand.Rand, count int) []string {
	seen := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Generate builds the synthetic dataset. The same seed always produces the
// same workbook.
func Generate(cfg GeneratorConfig) Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	engineers := pickNames(rng, cfg.Consultants)
	architects := pickNames(rng, cfg.Architects)
	customers := companies
	if cfg.Customers > 0 && cfg.Customers < len(customers) {
		customers = customers[:cfg.Customers]
	}

	ds := Dataset{Engineers: engineers, Architects: architects}

	for i := 0; i < cfg.Projects; i++ {
		jobNumber := fmt.Sprintf("J%05d", 10000+i)

		// Size mix roughly follows the real book: mostly small jobs.
		var budget float64
		switch roll := rng.Float64(); {
		case roll < 0.55:
			budget = 20 + rng.Float64()*80
		case roll < 0.85:
			budget = 100 + rng.Float64()*400
		default:
			budget = 500 + rng.Float64()*1500
		}
		budget = float64(int(budget))

		// Variance sits near budget with a fat right tail.
		variance := rng.NormFloat64() * 0.20
		if rng.Float64() < 0.08 {
			variance += rng.Float64() * 1.5
		}
		actual := budget * (1 + variance)
		if actual < 0 {
			actual = 0
		}
		actual = float64(int(actual))

		resources := engineers[rng.Intn(len(engineers))]
		if rng.Float64() < 0.25 && len(engineers) > 1 {
			second := engineers[rng.Intn(len(engineers))]
			if second != resources {
				resources += ", " + second
			}
		}

		architect := ""
		if rng.Float64() < 0.7 {
			architect = architects[rng.Intn(len(architects))]
		}

		status := statuses[rng.Intn(len(statuses))]
		completion := 1.0
		if status == "Open" || status == "In Progress" {
			completion = 0.2 + rng.Float64()*0.75
		}

		endDate := ""
		if status != "Open" {
			end := cfg.Now.AddDate(0, 0, -rng.Intn(540))
			endDate = end.Format("2006-01-02")
		}

		// A few quality defects, same as the real export.
		if rng.Float64() < 0.04 {
			budget = 0
		}
		if rng.Float64() < 0.02 {
			status = "Cancelled"
		}

		ds.Rows = append(ds.Rows, []any{
			jobNumber,
			descriptions[rng.Intn(len(descriptions))],
			customers[rng.Intn(len(customers))],
			budget,
			actual,
			resources,
			architect,
			status,
			status,
			fmt.Sprintf("%.0f%%", completion*100),
			endDate,
		})
	}

	// One audit exclusion so the sample exercises the rule path.
	if len(ds.Rows) > 0 && len(engineers) > 0 {
		ds.Exclusions = append(ds.Exclusions, analysis.ExclusionRule{
			Consultant: engineers[0],
			JobNumber:  fmt.Sprint(ds.Rows[0][0]),
			Reason:     "Shadowing engagement, hours not attributable",
		})
	}

	return ds
}

// Save writes the workbook and roster files into dir.
func Save(dir string, ds Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := saveWorkbook(filepath.Join(dir, "project_financials.xlsx"), ds.Rows); err != nil {
		return err
	}
	if err := saveNames(filepath.Join(dir, roster.EngineersFile), "Engineering roster", ds.Engineers); err != nil {
		return err
	}
	if err := saveNames(filepath.Join(dir, roster.ArchitectsFile), "Solution architects", ds.Architects); err != nil {
		return err
	}
	if len(ds.Exclusions) > 0 {
		if err := roster.SaveExclusions(filepath.Join(dir, roster.ExclusionsFile), ds.Exclusions); err != nil {
			return err
		}
	}
	return nil
}

func saveWorkbook(path string, rows [][]any) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	// Banner block above the real headers, like the production export.
	banner := []string{
		"Project Financials Report", "Generated by mockgen", "",
		"Practice: Infrastructure Services", "", "Period: rolling 18 months",
		"", "", "Confidential", "", "", "",
	}
	for i, text := range banner {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, text); err != nil {
			return err
		}
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return f.Close()
}

func saveNames(path, comment string, names []string) error {
	var sb strings.Builder
	sb.WriteString("# " + comment + "\n")
	for _, name := range names {
		sb.WriteString(name + "\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

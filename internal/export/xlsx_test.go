package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"pfpulse/internal/config"
)

func TestXLSXSingleSheet(t *testing.T) {
	data, err := XLSX(ReportConsultants, sampleResult(), config.DefaultSettings().Thresholds)
	if err != nil {
		t.Fatalf("XLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported workbook does not re-open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Consultants" {
		t.Fatalf("sheets = %v, want [Consultants]", sheets)
	}

	name, err := f.GetCellValue("Consultants", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Alice Smith" {
		t.Errorf("A2 = %q, want Alice Smith", name)
	}
}

func TestXLSXEverythingHasAllSheets(t *testing.T) {
	data, err := XLSXEverything(sampleResult(), config.DefaultSettings().Thresholds)
	if err != nil {
		t.Fatalf("XLSXEverything failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported workbook does not re-open: %v", err)
	}
	defer f.Close()

	want := []string{
		"Consultants", "Solution Architects", "Customers",
		"DAS+ Analysis", "SA Combinations", "Consultant Projects",
		"Excluded Projects",
	}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVarianceStylePick(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newVarianceStyles(f)
	if err != nil {
		t.Fatal(err)
	}
	th := config.DefaultSettings().Thresholds // green -0.10, yellow 0.10, red 0.30

	cases := []struct {
		pct    float64
		want   int
		tinted bool
	}{
		{-20, styles.green, true},  // well under budget
		{-10, 0, false},            // exactly green: not under it
		{0, 0, false},              // neutral band
		{10, 0, false},             // exactly yellow: not over it
		{20, styles.yellow, true},  // warning band
		{30, styles.yellow, true},  // exactly red: still only over yellow
		{40, styles.red, true},
	}
	for _, tc := range cases {
		got, tinted := styles.pick(tc.pct, th)
		if tinted != tc.tinted || (tinted && got != tc.want) {
			t.Errorf("pick(%v) = %d,%v, want %d,%v", tc.pct, got, tinted, tc.want, tc.tinted)
		}
	}
}

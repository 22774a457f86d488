package analysis

import "testing"

// The risk breakpoints are a contract; every boundary is pinned exactly.
func TestRiskScoreSuccessRateBoundaries(t *testing.T) {
	cases := []struct {
		successRate float64
		want        int
	}{
		{49.9, 4},
		{50, 2}, // exactly 50 is the <70 band, not <50
		{69.9, 2},
		{70, 1},
		{84.9, 1},
		{85, 0},
		{100, 0},
	}
	for _, tc := range cases {
		// projects=10 (+0), avgVariance=0 (+0), budget=3000 (+0) isolate the
		// success-rate signal.
		if got := riskScore(tc.successRate, 10, 0, 3000); got != tc.want {
			t.Errorf("riskScore(successRate=%v) = %d, want %d", tc.successRate, got, tc.want)
		}
	}
}

func TestRiskScoreProjectCountBoundaries(t *testing.T) {
	cases := []struct {
		projects int
		want     int
	}{
		{10, 0},
		{9, 1},
		{5, 1},
		{4, 2},
		{1, 2},
	}
	for _, tc := range cases {
		if got := riskScore(100, tc.projects, 0, 3000); got != tc.want {
			t.Errorf("riskScore(projects=%d) = %d, want %d", tc.projects, got, tc.want)
		}
	}
}

func TestRiskScoreVarianceBoundaries(t *testing.T) {
	cases := []struct {
		avgVariance float64
		want        int
	}{
		{15, 0}, // boundaries are exclusive: exactly 15 adds nothing
		{15.1, 1},
		{30, 1},
		{30.1, 2},
		{50, 2},
		{50.1, 3},
		{-50.1, 3}, // magnitude matters, not direction
	}
	for _, tc := range cases {
		if got := riskScore(100, 10, tc.avgVariance, 3000); got != tc.want {
			t.Errorf("riskScore(avgVariance=%v) = %d, want %d", tc.avgVariance, got, tc.want)
		}
	}
}

func TestRiskScoreBudgetBoundaries(t *testing.T) {
	cases := []struct {
		budget float64
		want   int
	}{
		{1999.9, 1}, // small engagement
		{2000, 0},   // neutral band is inclusive at 2000
		{5000, 0},   // and at 5000
		{5000.1, 1}, // large exposure
	}
	for _, tc := range cases {
		if got := riskScore(100, 10, 0, tc.budget); got != tc.want {
			t.Errorf("riskScore(budget=%v) = %d, want %d", tc.budget, got, tc.want)
		}
	}
}

func TestRiskLevelBuckets(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, RiskLow},
		{2, RiskLow},
		{3, RiskMedium},
		{5, RiskMedium},
		{6, RiskHigh},
		{8, RiskHigh},
		{9, RiskCritical},
		{11, RiskCritical},
	}
	for _, tc := range cases {
		if got := riskLevel(tc.score); got != tc.want {
			t.Errorf("riskLevel(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestBuildCustomerMetricsFloor(t *testing.T) {
	m := map[string]*customerState{
		"Small": {projects: 2, totalBudget: 100, withinBudget: 2},
		"Big":   {projects: 3, totalBudget: 300, withinBudget: 3},
	}

	unfloored := buildCustomerMetrics(m, 0)
	if len(unfloored) != 2 {
		t.Errorf("no floor keeps every customer, got %d", len(unfloored))
	}

	floored := buildCustomerMetrics(m, 3)
	if len(floored) != 1 || floored[0].Name != "Big" {
		t.Errorf("floor 3 must keep only Big, got %+v", floored)
	}
}

func TestBuildCustomerMetricsAvgVariance(t *testing.T) {
	// totalVariancePct is a running sum of percentages; the mean is a true
	// mean of per-project variance percent.
	m := map[string]*customerState{
		"Acme": {projects: 2, totalVariancePct: 30, withinBudget: 1, overBudget: 1, totalBudget: 2500},
	}
	metrics := buildCustomerMetrics(m, 0)
	if metrics[0].AvgVariancePct != 15.0 {
		t.Errorf("avgVariance = %v, want 15.0", metrics[0].AvgVariancePct)
	}
	if metrics[0].SuccessRate != 50.0 {
		t.Errorf("successRate = %v, want 50.0", metrics[0].SuccessRate)
	}
	// successRate 50 (+2), projects 2 (+2), |avg| 15 (+0), budget 2500 (+0).
	if metrics[0].RiskScore != 4 || metrics[0].RiskLevel != RiskMedium {
		t.Errorf("risk = %d/%s, want 4/Medium", metrics[0].RiskScore, metrics[0].RiskLevel)
	}
}

package analysis

// ExclusionRule removes one (consultant, project) pairing from aggregation.
// Matching is case-insensitive on the consultant and exact on the job
// number. Exclusions never apply to solution architects.
type ExclusionRule struct {
	// Consultant is the excluded person's name.
	Consultant string `json:"consultant"`
	// JobNumber is the exact project key the exclusion applies to.
	JobNumber string `json:"jobNumber"`
	// Reason documents why. Required on write; reads without one get a
	// placeholder.
	Reason string `json:"reason"`
}

// FilterSet carries the allow-lists and exclusion rules for a run. A nil or
// empty allow-list admits everyone; it never means "exclude everyone".
type FilterSet struct {
	// Engineers is the consultant allow-list (normalized names).
	Engineers []string `json:"engineers,omitempty"`
	// Architects is the SA allow-list (normalized names).
	Architects []string `json:"architects,omitempty"`
	// Exclusions are per-project consultant exclusions.
	Exclusions []ExclusionRule `json:"exclusions,omitempty"`
}

// ProjectDetail is the per-project snapshot appended to an entity's metric
// record during aggregation.
type ProjectDetail struct {
	JobNumber      string  `json:"jobNumber"`
	JobDescription string  `json:"jobDescription,omitempty"`
	Customer       string  `json:"customer,omitempty"`
	BudgetHours    float64 `json:"budgetHours"`
	ActualHours    float64 `json:"actualHours"`
	// VariancePct is the budget variance as a percentage, rounded to one
	// decimal (half away from zero).
	VariancePct float64 `json:"variancePct"`
	Status      string  `json:"status,omitempty"`
	Completion  float64 `json:"completion"`
}

// ConsultantMetrics is one consultant's aggregated performance.
// SuccessRate and EfficiencyScore are computed identically on purpose; the
// reporting surface treats them as distinct columns and this mirrors the
// system of record.
type ConsultantMetrics struct {
	Name            string          `json:"name"`
	Projects        int             `json:"projects"`
	TotalHours      float64         `json:"totalHours"`
	WithinBudget    int             `json:"withinBudget"`
	OverBudget      int             `json:"overBudget"`
	SuccessRate     float64         `json:"successRate"`
	EfficiencyScore float64         `json:"efficiencyScore"`
	ProjectDetails  []ProjectDetail `json:"projectDetails,omitempty"`
}

// ArchitectMetrics is one solution architect's aggregated performance.
type ArchitectMetrics struct {
	Name               string          `json:"name"`
	Projects           int             `json:"projects"`
	SuccessfulProjects int             `json:"successfulProjects"`
	TotalBudgetedHours float64         `json:"totalBudgetedHours"`
	TotalActualHours   float64         `json:"totalActualHours"`
	SuccessRate        float64         `json:"successRate"`
	// VariancePct is the aggregate variance across all the SA's projects,
	// as a percentage rounded to one decimal.
	VariancePct    float64         `json:"variancePct"`
	ProjectDetails []ProjectDetail `json:"projectDetails,omitempty"`
}

// Risk levels for customer metrics.
const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
)

// CustomerMetrics is one customer's aggregated performance, computed
// identically for the practice and company maps.
type CustomerMetrics struct {
	Name            string  `json:"name"`
	Projects        int     `json:"projects"`
	TotalBudgetHrs  float64 `json:"totalBudgetHrs"`
	TotalActualHrs  float64 `json:"totalActualHrs"`
	WithinBudget    int     `json:"withinBudget"`
	OverBudget      int     `json:"overBudget"`
	SuccessRate     float64 `json:"successRate"`
	// AvgVariancePct is the mean of the per-project variance percentages.
	AvgVariancePct float64 `json:"avgVariancePct"`
	// RiskScore is the 0-11 weighted sum of the four health signals.
	RiskScore int    `json:"riskScore"`
	RiskLevel string `json:"riskLevel"`

	ProjectDetails []ProjectDetail `json:"projectDetails,omitempty"`
}

// CustomerBreakdown splits customer metrics into the practice view (projects
// touched by a qualifying consultant or SA) and the unfiltered company view.
type CustomerBreakdown struct {
	Practice []CustomerMetrics `json:"practice"`
	Company  []CustomerMetrics `json:"company"`
}

// DASProject is one project's delivery-accuracy score.
type DASProject struct {
	JobNumber       string  `json:"jobNumber"`
	Consultant      string  `json:"consultant"`
	Customer        string  `json:"customer,omitempty"`
	BudgetRatio     float64 `json:"budgetRatio"`
	CompletionRatio float64 `json:"completionRatio"`
	Score           float64 `json:"score"`
	Status          string  `json:"status,omitempty"`
}

// DASConsultant aggregates delivery-accuracy scores per consultant.
type DASConsultant struct {
	Name     string  `json:"name"`
	Projects int     `json:"projects"`
	AvgDAS   float64 `json:"avgDAS"`
	// MedianDAS uses the lower-median convention: the element at
	// floor(n/2) of the ascending-sorted scores.
	MedianDAS   float64 `json:"medianDAS"`
	LowCount    int     `json:"lowCount"`    // scores < 0.75
	HighCount   int     `json:"highCount"`   // scores >= 0.85
	ReviewCount int     `json:"reviewCount"` // scores inside the review band
}

// DASAnalysis is the full delivery-accuracy report.
type DASAnalysis struct {
	Consultants []DASConsultant `json:"consultants"`
	// ReviewProjects are sampled projects inside the review band for
	// consultants with enough volume, ordered by job number.
	ReviewProjects []DASProject `json:"reviewProjects,omitempty"`
}

// QuarterRanking is one consultant's composite standing.
type QuarterRanking struct {
	Name             string  `json:"name"`
	CompositeScore   float64 `json:"compositeScore"`
	SuccessRate      float64 `json:"successRate"`
	EfficiencyScore  float64 `json:"efficiencyScore"`
	VolumeScore      float64 `json:"volumeScore"`
	ConsistencyScore float64 `json:"consistencyScore"`
	Projects         int     `json:"projects"`
	TotalHours       float64 `json:"totalHours"`
}

// ComboMetrics is the shared-project performance of an SA paired with a
// consultant or a customer.
type ComboMetrics struct {
	Architect string `json:"architect"`
	// Partner is the consultant name or customer name depending on the
	// combination kind.
	Partner            string  `json:"partner"`
	Projects           int     `json:"projects"`
	SuccessfulProjects int     `json:"successfulProjects"`
	SuccessRate        float64 `json:"successRate"`
}

// ExcludedProject records a contribution dropped by an exclusion rule,
// kept for audit export.
type ExcludedProject struct {
	Consultant string `json:"consultant"`
	JobNumber  string `json:"jobNumber"`
	Reason     string `json:"reason"`
}

// Result is the complete assembled analysis.
type Result struct {
	// TotalProjects is the unfiltered row count.
	TotalProjects      int                 `json:"totalProjects"`
	Consultants        []ConsultantMetrics `json:"consultants"`
	SolutionArchitects []ArchitectMetrics  `json:"solutionArchitects"`
	Customers          CustomerBreakdown   `json:"customers"`
	DAS                DASAnalysis         `json:"dasAnalysis"`
	SACombinations     []ComboMetrics      `json:"saCombinations"`
	SACustomerAnalysis []ComboMetrics      `json:"saCustomerAnalysis"`
	ConsultantOfQuarter []QuarterRanking   `json:"consultantOfQuarter"`
	ExcludedProjects   []ExcludedProject   `json:"excludedProjects,omitempty"`
}

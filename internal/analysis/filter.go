package analysis

import "strings"

// PassesAllowList reports whether a name is admitted by an allow-list.
// A nil or empty list admits everyone. Matching is case-insensitive and
// deliberately fuzzy: exact equality or substring containment in either
// direction, so "John Smith" admits "John Smith Jr" but not "J. Smith".
func PassesAllowList(name string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}

	lower := strings.ToLower(name)
	for _, entry := range allowList {
		e := strings.ToLower(entry)
		if e == lower || strings.Contains(lower, e) || strings.Contains(e, lower) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a (consultant, job number) pair is excluded.
// The consultant compares case-insensitively after trimming; the job number
// compares exactly. Never a substring match.
func IsExcluded(consultant, jobNumber string, rules []ExclusionRule) bool {
	lower := strings.ToLower(strings.TrimSpace(consultant))
	for _, rule := range rules {
		if strings.ToLower(strings.TrimSpace(rule.Consultant)) == lower && rule.JobNumber == jobNumber {
			return true
		}
	}
	return false
}

// exclusionReason returns the recorded reason for a matching rule, for the
// audit trail of dropped contributions.
func exclusionReason(consultant, jobNumber string, rules []ExclusionRule) string {
	lower := strings.ToLower(strings.TrimSpace(consultant))
	for _, rule := range rules {
		if strings.ToLower(strings.TrimSpace(rule.Consultant)) == lower && rule.JobNumber == jobNumber {
			return rule.Reason
		}
	}
	return ""
}

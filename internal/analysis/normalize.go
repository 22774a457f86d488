package analysis

import "strings"

// multiValueReplacer folds the delimiter variants seen in resource fields
// down to commas before splitting.
var multiValueReplacer = strings.NewReplacer(";", ",", "|", ",", "\n", ",")

// NormalizeName trims a name and collapses internal whitespace runs to a
// single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SplitPeople splits a raw multi-value people field into normalized names.
// Results of length <= 1 are discarded as noise (stray commas, initials
// left by partial edits). Order follows the field.
func SplitPeople(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(multiValueReplacer.Replace(raw), ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := NormalizeName(part)
		if len(name) <= 1 {
			continue
		}
		names = append(names, name)
	}
	return names
}

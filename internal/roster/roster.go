// Package roster loads the people lists that scope an analysis run: the
// engineer and SA allow-lists, the per-project exclusion rules, and the
// consultant-of-the-quarter disqualification list. Validation happens here;
// the analysis engine never sees a partially-malformed entry.
package roster

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pfpulse/internal/analysis"
)

// Conventional file names inside the roster directory.
const (
	EngineersFile    = "engineers.txt"
	ArchitectsFile   = "solution_architects.txt"
	ExclusionsFile   = "exclusions.csv"
	DisqualifiedFile = "disqualified.txt"
)

// placeholderReason substitutes for a blank reason on read. Writes always
// require a real one.
const placeholderReason = "No reason recorded"

// LoadNames reads a one-name-per-line list. Blank lines and '#' comments are
// skipped; names are normalized the same way the engine normalizes row
// fields. A missing file means "no restriction" and returns nil.
func LoadNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open name list %s: %w", path, err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := analysis.NormalizeName(line)
		if len(name) <= 1 {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read name list %s: %w", path, err)
	}
	return names, nil
}

// LoadExclusions reads the exclusions CSV (Consultant, Project, Reason).
// The header row is optional. A missing reason gets the placeholder; a line
// without both consultant and project is a boundary error, reported with its
// line number.
func LoadExclusions(path string) ([]analysis.ExclusionRule, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open exclusions %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // reason column may be absent entirely

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse exclusions %s: %w", path, err)
	}

	var rules []analysis.ExclusionRule
	for i, record := range records {
		if i == 0 && isExclusionHeader(record) {
			continue
		}

		consultant := ""
		project := ""
		reason := ""
		if len(record) > 0 {
			consultant = analysis.NormalizeName(record[0])
		}
		if len(record) > 1 {
			project = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			reason = strings.TrimSpace(record[2])
		}

		if consultant == "" || project == "" {
			return nil, fmt.Errorf("exclusions %s line %d: consultant and project are required", path, i+1)
		}
		if reason == "" {
			reason = placeholderReason
		}

		rules = append(rules, analysis.ExclusionRule{
			Consultant: consultant,
			JobNumber:  project,
			Reason:     reason,
		})
	}
	return rules, nil
}

// SaveExclusions writes the exclusions CSV with a header row. Every rule
// must carry a reason; quoting (embedded commas, doubled quotes) is the CSV
// writer's standard behavior.
func SaveExclusions(path string, rules []analysis.ExclusionRule) error {
	for _, rule := range rules {
		if strings.TrimSpace(rule.Reason) == "" {
			return fmt.Errorf("exclusion %s/%s: a reason is required on write", rule.Consultant, rule.JobNumber)
		}
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create exclusions %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Consultant", "Project", "Reason"}); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write exclusions header: %w", err)
	}
	for _, rule := range rules {
		if err := writer.Write([]string{rule.Consultant, rule.JobNumber, rule.Reason}); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write exclusion row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush exclusions: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close exclusions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename exclusions: %w", err)
	}
	return nil
}

func isExclusionHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "consultant")
}

// Rosters bundles everything the roster directory provides for one run.
type Rosters struct {
	Filters      analysis.FilterSet
	Disqualified []string
}

// Load reads all roster files from dir. Missing files are fine (empty lists
// admit everyone); malformed content is not.
func Load(dir string) (Rosters, error) {
	var r Rosters
	var err error

	if r.Filters.Engineers, err = LoadNames(filepath.Join(dir, EngineersFile)); err != nil {
		return r, err
	}
	if r.Filters.Architects, err = LoadNames(filepath.Join(dir, ArchitectsFile)); err != nil {
		return r, err
	}
	if r.Filters.Exclusions, err = LoadExclusions(filepath.Join(dir, ExclusionsFile)); err != nil {
		return r, err
	}
	if r.Disqualified, err = LoadNames(filepath.Join(dir, DisqualifiedFile)); err != nil {
		return r, err
	}

	log.Debug().
		Int("engineers", len(r.Filters.Engineers)).
		Int("architects", len(r.Filters.Architects)).
		Int("exclusions", len(r.Filters.Exclusions)).
		Int("disqualified", len(r.Disqualified)).
		Msg("Rosters loaded")
	return r, nil
}

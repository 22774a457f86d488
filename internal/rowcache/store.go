package rowcache

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pfpulse/internal/financials"
)

// Store holds the parsed row snapshot with thread-safe access and JSONL
// persistence. One row per line; a bad line is skipped, not fatal, so a
// truncated cache degrades to a partial one instead of blocking startup.
type Store struct {
	mu   sync.RWMutex
	rows []financials.ProjectRow
	// sourceModifiedAt is the workbook modification time the snapshot was
	// parsed from; the staleness check compares against it.
	sourceModifiedAt time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Rows returns a copy of the snapshot so callers can never mutate the cache.
func (s *Store) Rows() []financials.ProjectRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]financials.ProjectRow, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Replace swaps in a fresh snapshot.
func (s *Store) Replace(rows []financials.ProjectRow, sourceModifiedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.sourceModifiedAt = sourceModifiedAt
}

// Clear drops the snapshot, forcing the next access to re-ingest.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.sourceModifiedAt = time.Time{}
}

// SourceModifiedAt returns the workbook timestamp of the current snapshot.
func (s *Store) SourceModifiedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceModifiedAt
}

// Count returns the number of cached rows.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// cacheMeta is the first JSONL line, carrying the snapshot provenance.
type cacheMeta struct {
	SourceModifiedAt time.Time `json:"sourceModifiedAt"`
	Rows             int       `json:"rows"`
}

// Load reads a JSONL cache file into the store. A missing file is not an
// error; invalid lines are skipped with a warning.
func (s *Store) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open row cache: %w", err)
	}
	defer file.Close()

	var (
		meta    cacheMeta
		rows    []financials.ProjectRow
		lineNum int
		skipped int
	)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			if err := json.Unmarshal(scanner.Bytes(), &meta); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Row cache has no meta line, discarding cache")
				return nil
			}
			continue
		}
		var row financials.ProjectRow
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			skipped++
			log.Warn().Err(err).Int("line", lineNum).Msg("Skipping invalid JSON line in row cache")
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read row cache: %w", err)
	}

	s.Replace(rows, meta.SourceModifiedAt)

	log.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Int("skipped", skipped).
		Time("sourceModifiedAt", meta.SourceModifiedAt).
		Msg("Row cache loaded")
	return nil
}

// Save persists the snapshot as JSONL via a temp file and atomic rename.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	rows := s.rows
	meta := cacheMeta{SourceModifiedAt: s.sourceModifiedAt, Rows: len(s.rows)}
	s.mu.RUnlock()

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp row cache: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	if err := encoder.Encode(meta); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode cache meta: %w", err)
	}
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode cached row: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush row cache: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close row cache: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename row cache: %w", err)
	}

	log.Debug().Str("path", path).Int("rows", len(rows)).Msg("Row cache saved")
	return nil
}

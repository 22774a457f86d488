package rowcache

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"pfpulse/internal/financials"
)

// Provider serves rows from the in-memory snapshot and refreshes it when the
// source workbook's modification time moves. The clock is injected so tests
// can pin "now" when reasoning about snapshot age.
type Provider struct {
	source    financials.RowSource
	store     *Store
	cachePath string
	// sourcePath is the workbook whose mtime drives invalidation.
	sourcePath string
	now        func() time.Time

	loadedAt time.Time
}

// NewProvider wires a row source to the cache. cachePath may be empty to
// disable disk persistence.
func NewProvider(source financials.RowSource, store *Store, sourcePath, cachePath string) *Provider {
	return &Provider{
		source:     source,
		store:      store,
		cachePath:  cachePath,
		sourcePath: sourcePath,
		now:        time.Now,
	}
}

// WithClock overrides the provider's clock. Tests only.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Rows returns the current row snapshot, re-ingesting the workbook first if
// the snapshot is stale.
func (p *Provider) Rows() ([]financials.ProjectRow, error) {
	modTime, err := p.sourceModTime()
	if err != nil {
		return nil, err
	}
	if err := p.RefreshIfStale(modTime); err != nil {
		return nil, err
	}
	return p.store.Rows(), nil
}

// RefreshIfStale re-ingests when the held snapshot does not match the given
// source modification time. Fresh snapshots are served as-is; the engine
// itself never memoizes, so this is the only caching layer.
func (p *Provider) RefreshIfStale(sourceModifiedAt time.Time) error {
	if p.store.Count() > 0 && p.store.SourceModifiedAt().Equal(sourceModifiedAt) {
		return nil
	}

	// A persisted cache from a previous process may already hold this
	// workbook version.
	if p.store.Count() == 0 && p.cachePath != "" {
		if err := p.store.Load(p.cachePath); err != nil {
			log.Warn().Err(err).Msg("Row cache load failed, re-ingesting workbook")
		}
		if p.store.Count() > 0 && p.store.SourceModifiedAt().Equal(sourceModifiedAt) {
			p.loadedAt = p.now()
			return nil
		}
	}

	rows, err := p.source.Load()
	if err != nil {
		return fmt.Errorf("ingest rows: %w", err)
	}
	p.store.Replace(rows, sourceModifiedAt)
	p.loadedAt = p.now()

	if p.cachePath != "" {
		if err := p.store.Save(p.cachePath); err != nil {
			log.Warn().Err(err).Msg("Failed to persist row cache")
		}
	}

	log.Info().Int("rows", len(rows)).Time("sourceModifiedAt", sourceModifiedAt).Msg("Row snapshot refreshed")
	return nil
}

// Invalidate drops the snapshot so the next read re-ingests, regardless of
// timestamps. Used after a workbook upload replaces the source file.
func (p *Provider) Invalidate() {
	p.store.Clear()
}

// SnapshotAge reports how long ago the snapshot was (re)loaded.
func (p *Provider) SnapshotAge() time.Duration {
	if p.loadedAt.IsZero() {
		return 0
	}
	return p.now().Sub(p.loadedAt)
}

// sourceModTime stats the workbook file.
func (p *Provider) sourceModTime() (time.Time, error) {
	info, err := os.Stat(p.sourcePath)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat workbook %s: %w", p.sourcePath, err)
	}
	return info.ModTime(), nil
}

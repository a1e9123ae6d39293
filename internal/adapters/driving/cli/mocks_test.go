package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Rupali110289/emiprdict/internal/adapters/driven/storage/memory"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/services"
)

// mockCacheManager implements driving.CacheManager for testing.
// Names listed in failing end in an integrity failure.
type mockCacheManager struct {
	specs    []domain.ArtifactSpec
	statuses []domain.ArtifactStatus
	records  []domain.FetchRecord
	failing  map[string]bool
	err      error

	// dir, when set, is where ensured artifacts are reported to live.
	dir string

	ensured      []string
	ensureForce  bool
	allForce     bool
	allCalls     int
	historyName  string
	historyLimit int
}

func (m *mockCacheManager) Ensure(_ context.Context, name string, force bool) (*domain.EnsureResult, error) {
	m.ensured = append(m.ensured, name)
	m.ensureForce = force
	if m.err != nil {
		return nil, m.err
	}
	if m.failing[name] {
		res := &domain.EnsureResult{Name: name, Status: domain.EnsureGaveUp, Attempts: 3, Fetches: 3, SizeBytes: 10}
		return res, &domain.IntegrityError{Name: name, SizeBytes: 10, MinimumValidSize: 100, Attempts: 3}
	}
	fetches := 0
	if force {
		fetches = 1
	}
	path := "/cache/" + name
	if m.dir != "" {
		path = filepath.Join(m.dir, name)
	}
	return &domain.EnsureResult{
		Name:      name,
		Path:      path,
		Status:    domain.EnsureValidated,
		SizeBytes: 2048,
		Attempts:  1,
		Fetches:   fetches,
	}, nil
}

func (m *mockCacheManager) EnsureAll(ctx context.Context, force bool) (*domain.SweepReport, error) {
	m.allCalls++
	m.allForce = force
	report := domain.NewSweepReport("sweep-1")
	var errs []error
	for _, spec := range m.specs {
		res, err := m.Ensure(ctx, spec.Name, force)
		report.Add(spec.Name, res, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("ensure %s: %w", spec.Name, err))
		}
	}
	if len(errs) > 0 {
		return report, errs[0]
	}
	return report, nil
}

func (m *mockCacheManager) Status(_ context.Context) ([]domain.ArtifactStatus, error) {
	return m.statuses, m.err
}

func (m *mockCacheManager) History(_ context.Context, name string, limit int) ([]domain.FetchRecord, error) {
	m.historyName = name
	m.historyLimit = limit
	return m.records, m.err
}

func (m *mockCacheManager) Specs() []domain.ArtifactSpec {
	return m.specs
}

func newMockCacheManager(names ...string) *mockCacheManager {
	m := &mockCacheManager{failing: make(map[string]bool)}
	for _, name := range names {
		m.specs = append(m.specs, domain.ArtifactSpec{
			Name:             name,
			SourceLocator:    "https://example.com/" + name,
			MinimumValidSize: 100,
		})
	}
	return m
}

// setupCacheTest installs cache as the package cache manager, with a real
// loader on top of it.
func setupCacheTest(cache *mockCacheManager) func() {
	oldCache, oldLoader, oldErr := cacheManager, artifactLoader, cacheErr
	cacheManager = cache
	artifactLoader = services.NewArtifactLoader(cache)
	cacheErr = nil
	return func() {
		cacheManager, artifactLoader, cacheErr = oldCache, oldLoader, oldErr
		ensureForce = false
		historyLimit = 20
	}
}

// setupSettingsTest installs a settings service over an in-memory store.
func setupSettingsTest(values map[string]any) (*memory.ConfigStore, func()) {
	store := memory.NewConfigStoreFrom(values)
	old := settingsService
	settingsService = services.NewSettingsService(store, "/home/u/.emiprdict")
	return store, func() {
		settingsService = old
	}
}

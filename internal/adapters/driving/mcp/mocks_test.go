package mcp

import (
	"context"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// mockCacheManager is a mock implementation of driving.CacheManager.
type mockCacheManager struct {
	result   *domain.EnsureResult
	statuses []domain.ArtifactStatus
	records  []domain.FetchRecord
	err      error

	ensuredName  string
	ensuredForce bool
	historyName  string
	historyLimit int
}

func (m *mockCacheManager) Ensure(_ context.Context, name string, force bool) (*domain.EnsureResult, error) {
	m.ensuredName = name
	m.ensuredForce = force
	return m.result, m.err
}

func (m *mockCacheManager) EnsureAll(_ context.Context, _ bool) (*domain.SweepReport, error) {
	return domain.NewSweepReport("sweep"), m.err
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
	specs := make([]domain.ArtifactSpec, len(m.statuses))
	for i, st := range m.statuses {
		specs[i] = st.Spec
	}
	return specs
}

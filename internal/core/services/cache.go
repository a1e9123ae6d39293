package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// Ensure CacheManager implements the interface.
var _ driving.CacheManager = (*CacheManager)(nil)

// CacheManager keeps the registered artifacts present and size-valid in the
// local cache directory.
type CacheManager struct {
	table    *domain.ArtifactTable
	store    driven.ArtifactStore
	fetcher  driven.Fetcher
	history  driven.FetchHistoryStore
	settings domain.CacheSettings

	// Swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() string

	// Serialises ensure calls on the cache directory.
	mu sync.Mutex
}

// NewCacheManager creates a cache manager.
// The history store is optional - if nil, attempts are not recorded.
func NewCacheManager(
	table *domain.ArtifactTable,
	store driven.ArtifactStore,
	fetcher driven.Fetcher,
	history driven.FetchHistoryStore,
	settings domain.CacheSettings,
) *CacheManager {
	if settings.MaxAttempts < 1 {
		settings.MaxAttempts = domain.DefaultMaxAttempts
	}
	return &CacheManager{
		table:    table,
		store:    store,
		fetcher:  fetcher,
		history:  history,
		settings: settings,
		sleep:    sleepContext,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Specs returns the registered artifact specs in table order.
func (m *CacheManager) Specs() []domain.ArtifactSpec {
	return m.table.Specs()
}

// Ensure makes the named artifact available locally.
//
// The attempt loop fetches when no local copy exists (or on the first attempt
// when forced), measures the file and accepts it once it meets the minimum
// size. Undersized copies are deleted and retried after a fixed backoff.
// When attempts run out, the result is returned with a *domain.IntegrityError.
func (m *CacheManager) Ensure(ctx context.Context, name string, force bool) (*domain.EnsureResult, error) {
	spec, ok := m.table.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: artifact %q is not registered", domain.ErrNotFound, name)
	}
	if m.store == nil || m.fetcher == nil {
		return nil, errors.New("ensure: cache manager not configured")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ensure(ctx, spec, force)
}

func (m *CacheManager) ensure(ctx context.Context, spec domain.ArtifactSpec, force bool) (*domain.EnsureResult, error) {
	start := m.now()
	callID := m.newID()
	res := &domain.EnsureResult{
		Name:   spec.Name,
		Path:   m.store.Path(spec.Name),
		Forced: force,
	}

	if force {
		m.discard(spec.Name, "forced refresh")
	}

	for attempt := 1; attempt <= m.settings.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return m.giveUp(res, start), fmt.Errorf("ensure %s: %w", spec.Name, err)
		}
		res.Attempts = attempt
		attemptStart := m.now()

		local, err := m.store.Stat(spec.Name)
		if err != nil {
			return m.giveUp(res, start), fmt.Errorf("stat %s: %w", spec.Name, err)
		}

		outcome := domain.AttemptCacheHit
		var fetchErr error
		if !local.Present || (force && attempt == 1) {
			res.Fetches++
			logger.Debug("Fetching %s (attempt %d/%d)", spec.Name, attempt, m.settings.MaxAttempts)
			fetchErr = m.fetch(ctx, spec)
			outcome = domain.AttemptFetched
			if fetchErr != nil {
				res.LastErr = fetchErr
				outcome = domain.AttemptFetchFailed
				logger.Warn("Fetch %s failed: %v", spec.Name, fetchErr)
			}
			if local, err = m.store.Stat(spec.Name); err != nil {
				return m.giveUp(res, start), fmt.Errorf("stat %s: %w", spec.Name, err)
			}
		}
		res.SizeBytes = local.SizeBytes

		if local.MeetsMinimum(spec.MinimumValidSize) {
			m.record(ctx, callID, spec, attempt, outcome, local.SizeBytes, nil, attemptStart)
			res.Status = domain.EnsureValidated
			res.Duration = m.now().Sub(start)
			logger.Info("%s ready (%d bytes, %d fetches)", spec.Name, local.SizeBytes, res.Fetches)
			return res, nil
		}

		if outcome != domain.AttemptFetchFailed {
			outcome = domain.AttemptUndersized
			logger.Warn("%s is %d bytes, below minimum %d", spec.Name, local.SizeBytes, spec.MinimumValidSize)
		}
		m.record(ctx, callID, spec, attempt, outcome, local.SizeBytes, fetchErr, attemptStart)
		m.discard(spec.Name, "undersized copy")

		if attempt < m.settings.MaxAttempts {
			if err := m.sleep(ctx, m.settings.Backoff); err != nil {
				return m.giveUp(res, start), fmt.Errorf("ensure %s: %w", spec.Name, err)
			}
		}
	}

	m.giveUp(res, start)
	logger.Error("%s failed validation after %d attempts", spec.Name, res.Attempts)
	return res, &domain.IntegrityError{
		Name:             spec.Name,
		Path:             res.Path,
		SizeBytes:        res.SizeBytes,
		MinimumValidSize: spec.MinimumValidSize,
		Attempts:         res.Attempts,
		LastErr:          res.LastErr,
	}
}

// EnsureAll ensures every registered artifact in table order.
func (m *CacheManager) EnsureAll(ctx context.Context, force bool) (*domain.SweepReport, error) {
	report := domain.NewSweepReport(m.newID())

	logger.Section(fmt.Sprintf("Ensuring %d artifacts", m.table.Len()))

	var errs []error
	for _, name := range m.table.Names() {
		res, err := m.Ensure(ctx, name, force)
		report.Add(name, res, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("ensure %s: %w", name, err))
		}
	}

	logger.Info("Sweep complete: %d validated, %d failed", report.Validated(), report.Failed())

	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	return report, nil
}

// Status returns the local state of every registered artifact.
func (m *CacheManager) Status(_ context.Context) ([]domain.ArtifactStatus, error) {
	if m.store == nil {
		return nil, errors.New("status: cache manager not configured")
	}

	specs := m.table.Specs()
	statuses := make([]domain.ArtifactStatus, 0, len(specs))
	for _, spec := range specs {
		local, err := m.store.Stat(spec.Name)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", spec.Name, err)
		}
		statuses = append(statuses, domain.ArtifactStatus{Spec: spec, Local: local})
	}
	return statuses, nil
}

// History returns recorded attempts, newest first.
// An empty name returns attempts for every artifact.
func (m *CacheManager) History(ctx context.Context, name string, limit int) ([]domain.FetchRecord, error) {
	if name != "" {
		if _, ok := m.table.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: artifact %q is not registered", domain.ErrNotFound, name)
		}
	}
	if m.history == nil {
		return []domain.FetchRecord{}, nil
	}

	records, err := m.history.List(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// fetch writes a fresh copy through the store, bounded by the fetch timeout.
func (m *CacheManager) fetch(ctx context.Context, spec domain.ArtifactSpec) error {
	if m.settings.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.settings.FetchTimeout)
		defer cancel()
	}

	_, err := m.store.Write(spec.Name, func(w io.Writer) (int64, error) {
		return m.fetcher.Fetch(ctx, spec.SourceLocator, w)
	})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", spec.Name, err)
	}
	return nil
}

// discard removes the local copy. Failures are logged and otherwise ignored.
func (m *CacheManager) discard(name, reason string) {
	if err := m.store.Remove(name); err != nil {
		logger.Warn("Failed to remove %s (%s): %v", name, reason, err)
	}
}

// record persists one attempt. History is best-effort.
func (m *CacheManager) record(
	ctx context.Context,
	callID string,
	spec domain.ArtifactSpec,
	attempt int,
	outcome domain.AttemptOutcome,
	size int64,
	fetchErr error,
	started time.Time,
) {
	if m.history == nil || !m.settings.HistoryEnabled {
		return
	}

	rec := domain.FetchRecord{
		ID:        m.newID(),
		CallID:    callID,
		Name:      spec.Name,
		Locator:   spec.SourceLocator,
		Attempt:   attempt,
		Outcome:   outcome,
		SizeBytes: size,
		StartedAt: started,
		Duration:  m.now().Sub(started),
	}
	if fetchErr != nil {
		rec.Error = fetchErr.Error()
	}

	if err := m.history.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("Failed to record attempt for %s: %v", spec.Name, err)
	}
}

func (m *CacheManager) giveUp(res *domain.EnsureResult, start time.Time) *domain.EnsureResult {
	res.Status = domain.EnsureGaveUp
	res.Duration = m.now().Sub(start)
	return res
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// Ensure Revalidator implements the interface.
var _ driving.Revalidator = (*Revalidator)(nil)

// Revalidator periodically sweeps the cache so artifacts that disappeared
// or shrank are fetched again, and prunes attempt history past retention.
type Revalidator struct {
	cache     driving.CacheManager
	history   driven.FetchHistoryStore
	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	lastReport *domain.SweepReport
	lastErr    error
}

// NewRevalidator creates a revalidator.
// The history store is optional; retention <= 0 disables pruning.
func NewRevalidator(
	cache driving.CacheManager,
	history driven.FetchHistoryStore,
	interval, retention time.Duration,
) *Revalidator {
	return &Revalidator{
		cache:     cache,
		history:   history,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start sweeps immediately and then on every interval.
// It blocks until Stop is called or ctx is done.
func (r *Revalidator) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("%w: revalidate interval must be positive", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// Stop ends a running Start loop.
func (r *Revalidator) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	r.running = false
	close(r.stopCh)
	return nil
}

// RunOnce performs one sweep and one prune.
func (r *Revalidator) RunOnce(ctx context.Context) (*domain.SweepReport, error) {
	report, err := r.cache.EnsureAll(ctx, false)

	r.mu.Lock()
	r.lastReport = report
	r.lastErr = err
	r.mu.Unlock()

	if r.history != nil && r.retention > 0 {
		removed, pruneErr := r.history.Prune(ctx, r.now().Add(-r.retention))
		if pruneErr != nil {
			logger.Warn("revalidate: failed to prune history: %v", pruneErr)
		} else if removed > 0 {
			logger.Debug("revalidate: pruned %d history records", removed)
		}
	}

	return report, err
}

// LastReport returns the most recent sweep report and its error.
func (r *Revalidator) LastReport() (*domain.SweepReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReport, r.lastErr
}

func (r *Revalidator) tick(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil {
		logger.Warn("revalidate: %v", err)
	}
}

package driving

import (
	"context"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// Revalidator periodically sweeps the cache in the background.
type Revalidator interface {
	// Start sweeps immediately and then on every interval.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops a running Start loop.
	Stop() error

	// RunOnce performs a single sweep.
	RunOnce(ctx context.Context) (*domain.SweepReport, error)

	// LastReport returns the most recent sweep report and its error.
	LastReport() (*domain.SweepReport, error)
}

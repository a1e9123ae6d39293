package driving

import (
	"context"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// CacheManager guarantees registered artifacts are present locally and
// pass the minimum-size heuristic.
type CacheManager interface {
	// Ensure makes the named artifact available, fetching it when missing,
	// undersized, or when force is set. Unknown names fail with
	// domain.ErrNotFound. When every attempt is used up the result is still
	// returned alongside a *domain.IntegrityError.
	Ensure(ctx context.Context, name string, force bool) (*domain.EnsureResult, error)

	// EnsureAll calls Ensure for every registered artifact in table order.
	// One failure does not stop the sweep.
	EnsureAll(ctx context.Context, force bool) (*domain.SweepReport, error)

	// Status returns the local state of every registered artifact.
	Status(ctx context.Context) ([]domain.ArtifactStatus, error)

	// History returns recorded attempts, newest first.
	History(ctx context.Context, name string, limit int) ([]domain.FetchRecord, error)

	// Specs returns the registered artifact specs in table order.
	Specs() []domain.ArtifactSpec
}

// DecodeFunc reads an artifact from a local path.
type DecodeFunc func(path string) error

// ArtifactLoader ensures an artifact and decodes it, forcing one
// re-download when the cached copy cannot be decoded.
type ArtifactLoader interface {
	Load(ctx context.Context, name string, decode DecodeFunc) error
}

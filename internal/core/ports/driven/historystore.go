package driven

import (
	"context"
	"time"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// FetchHistoryStore persists ensure attempts.
type FetchHistoryStore interface {
	// Record stores one attempt.
	Record(ctx context.Context, rec domain.FetchRecord) error

	// List returns the most recent attempts, newest first.
	// An empty name lists attempts for every artifact. limit <= 0 means no limit.
	List(ctx context.Context, name string, limit int) ([]domain.FetchRecord, error)

	// Prune deletes attempts started before the cutoff and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}

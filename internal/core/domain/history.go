package domain

import "time"

// AttemptOutcome classifies one iteration of the ensure loop.
type AttemptOutcome string

const (
	// AttemptCacheHit means an existing local copy met the minimum size.
	AttemptCacheHit AttemptOutcome = "cache_hit"

	// AttemptFetched means a fetch produced a copy that met the minimum size.
	AttemptFetched AttemptOutcome = "fetched"

	// AttemptUndersized means the local copy was below the minimum size.
	AttemptUndersized AttemptOutcome = "undersized"

	// AttemptFetchFailed means the remote fetch returned an error.
	AttemptFetchFailed AttemptOutcome = "fetch_failed"
)

// IsValid returns true if the outcome is recognised.
func (o AttemptOutcome) IsValid() bool {
	switch o {
	case AttemptCacheHit, AttemptFetched, AttemptUndersized, AttemptFetchFailed:
		return true
	default:
		return false
	}
}

// FetchRecord is one persisted attempt of the ensure loop.
type FetchRecord struct {
	// ID uniquely identifies this attempt.
	ID string

	// CallID groups the attempts of one Ensure call.
	CallID string

	Name      string
	Locator   string
	Attempt   int
	Outcome   AttemptOutcome
	SizeBytes int64

	// Error holds the fetch error text for AttemptFetchFailed.
	Error string

	StartedAt time.Time
	Duration  time.Duration
}

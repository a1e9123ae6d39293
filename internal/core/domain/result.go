package domain

import "time"

// EnsureStatus is the terminal state of one Ensure call.
type EnsureStatus string

const (
	// EnsureValidated means the local copy meets its minimum size.
	EnsureValidated EnsureStatus = "validated"

	// EnsureGaveUp means every attempt was used without reaching the
	// minimum size. The path may point at a missing or undersized file.
	EnsureGaveUp EnsureStatus = "gave_up"
)

// EnsureResult is returned by Ensure for every registered artifact.
// Callers must check Validated (or the accompanying error) before trusting Path.
type EnsureResult struct {
	Name   string
	Path   string
	Status EnsureStatus

	// SizeBytes is the size measured on the final attempt (0 if missing).
	SizeBytes int64

	// Attempts counts loop iterations, Fetches counts remote fetches.
	// A cache hit has Attempts == 1 and Fetches == 0.
	Attempts int
	Fetches  int

	// Forced is true when an existing copy was discarded up front.
	Forced bool

	// LastErr is the last fetch error, nil if every fetch succeeded.
	LastErr error

	Duration time.Duration
}

// Validated reports whether Path can be trusted.
func (r *EnsureResult) Validated() bool {
	return r != nil && r.Status == EnsureValidated
}

// CacheHit reports whether the artifact was served without any fetch.
func (r *EnsureResult) CacheHit() bool {
	return r.Validated() && r.Fetches == 0
}

// SweepReport collects the per-artifact results of one EnsureAll pass.
type SweepReport struct {
	ID      string
	Results []EnsureResult

	// Errors maps artifact name to the error its Ensure returned.
	Errors map[string]error
}

// NewSweepReport creates an empty report.
func NewSweepReport(id string) *SweepReport {
	return &SweepReport{
		ID:     id,
		Errors: make(map[string]error),
	}
}

// Add records the outcome for the named artifact. res may be nil when
// ensure failed before any attempt; err is still counted.
func (r *SweepReport) Add(name string, res *EnsureResult, err error) {
	if res != nil {
		r.Results = append(r.Results, *res)
	}
	if err != nil {
		r.Errors[name] = err
	}
}

// Validated returns how many artifacts were validated.
func (r *SweepReport) Validated() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Validated() {
			n++
		}
	}
	return n
}

// Failed returns how many artifacts ended in error.
func (r *SweepReport) Failed() int {
	return len(r.Errors)
}

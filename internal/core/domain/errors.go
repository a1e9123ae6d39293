package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For artifacts this means the name is not in the registered table.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateArtifact indicates two specs share the same name.
	ErrDuplicateArtifact = errors.New("duplicate artifact name")

	// ErrUnsupportedLocator indicates no fetcher handles a locator scheme.
	ErrUnsupportedLocator = errors.New("unsupported source locator")

	// Artifact Errors.

	// ErrFetchFailure indicates the remote source was unreachable or
	// returned an error.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrIntegrityFailure indicates an artifact stayed below its minimum
	// valid size after every attempt.
	ErrIntegrityFailure = errors.New("integrity failure")

	// ErrLoadFailure indicates a local artifact could not be decoded even
	// after a forced re-download.
	ErrLoadFailure = errors.New("artifact load failure")
)

// IntegrityError reports an artifact that never reached its minimum size.
// The path is kept so the leftover file can be inspected.
type IntegrityError struct {
	Name             string
	Path             string
	SizeBytes        int64
	MinimumValidSize int64
	Attempts         int

	// LastErr is the last fetch error seen, if any attempt failed to fetch.
	LastErr error
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("%s: %s is %d bytes after %d attempts, need at least %d",
		ErrIntegrityFailure, e.Name, e.SizeBytes, e.Attempts, e.MinimumValidSize)
	if e.LastErr != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.LastErr)
	}
	return msg
}

// Is lets errors.Is match ErrIntegrityFailure.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityFailure
}

// Unwrap exposes the last fetch error.
func (e *IntegrityError) Unwrap() error {
	return e.LastErr
}

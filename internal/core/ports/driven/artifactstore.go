package driven

import (
	"io"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// ArtifactStore is the local cache directory. Files are named exactly
// after the artifact, with no subdirectories.
type ArtifactStore interface {
	// Dir returns the cache directory.
	Dir() string

	// Path returns the local path an artifact lives at, present or not.
	Path(name string) string

	// Stat reports the current on-disk state. A missing file is not an error.
	Stat(name string) (domain.LocalArtifact, error)

	// Write fills a new copy of the artifact through fill and moves it into
	// place only if fill succeeds. It returns the bytes written.
	Write(name string, fill func(w io.Writer) (int64, error)) (int64, error)

	// Remove deletes the local copy. Removing a missing file is not an error.
	Remove(name string) error
}

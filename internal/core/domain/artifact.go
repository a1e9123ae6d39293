package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ArtifactSpec describes one remote artifact the application needs at runtime.
// Specs are immutable once registered in an ArtifactTable.
type ArtifactSpec struct {
	// Name is the unique key and also the local file name.
	Name string

	// SourceLocator is the remote address (https://, gdrive://, github://, file://).
	SourceLocator string

	// MinimumValidSize is the byte floor below which a local copy is
	// treated as corrupt or incomplete.
	MinimumValidSize int64
}

// Validate checks the spec is usable.
// Names must be plain file names since they are stored as-is in the cache dir.
func (s ArtifactSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: artifact name is required", ErrInvalidInput)
	}
	if s.Name != filepath.Base(s.Name) || s.Name == "." || s.Name == ".." {
		return fmt.Errorf("%w: artifact name %q must be a plain file name", ErrInvalidInput, s.Name)
	}
	if strings.TrimSpace(s.SourceLocator) == "" {
		return fmt.Errorf("%w: artifact %s has no source locator", ErrInvalidInput, s.Name)
	}
	if s.MinimumValidSize < 0 {
		return fmt.Errorf("%w: artifact %s has negative minimum size", ErrInvalidInput, s.Name)
	}
	return nil
}

// Scheme returns the locator scheme, e.g. "https" or "gdrive".
// Returns an empty string when the locator has no scheme.
func (s ArtifactSpec) Scheme() string {
	idx := strings.Index(s.SourceLocator, "://")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(s.SourceLocator[:idx])
}

// ArtifactTable is the registered, ordered set of artifact specs.
// Each name maps to exactly one spec.
type ArtifactTable struct {
	specs []ArtifactSpec
	index map[string]int
}

// NewArtifactTable validates specs and builds a table preserving their order.
func NewArtifactTable(specs []ArtifactSpec) (*ArtifactTable, error) {
	t := &ArtifactTable{
		specs: make([]ArtifactSpec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, exists := t.index[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateArtifact, spec.Name)
		}
		t.index[spec.Name] = len(t.specs)
		t.specs = append(t.specs, spec)
	}
	return t, nil
}

// Lookup returns the spec registered under name.
func (t *ArtifactTable) Lookup(name string) (ArtifactSpec, bool) {
	if t == nil {
		return ArtifactSpec{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return ArtifactSpec{}, false
	}
	return t.specs[i], true
}

// Names returns the registered names in table order.
func (t *ArtifactTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.specs))
	for i, spec := range t.specs {
		names[i] = spec.Name
	}
	return names
}

// Specs returns a copy of the registered specs in table order.
func (t *ArtifactTable) Specs() []ArtifactSpec {
	if t == nil {
		return nil
	}
	out := make([]ArtifactSpec, len(t.specs))
	copy(out, t.specs)
	return out
}

// Len returns the number of registered artifacts.
func (t *ArtifactTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.specs)
}

// LocalArtifact is the on-disk state of one artifact.
type LocalArtifact struct {
	Name      string
	LocalPath string
	SizeBytes int64
	Present   bool
}

// MeetsMinimum reports whether the local copy is present and at least min bytes.
func (a LocalArtifact) MeetsMinimum(min int64) bool {
	return a.Present && a.SizeBytes >= min
}

// ArtifactStatus pairs a spec with its current local state.
type ArtifactStatus struct {
	Spec  ArtifactSpec
	Local LocalArtifact
}

// Valid reports whether the local copy passes the size heuristic.
func (s ArtifactStatus) Valid() bool {
	return s.Local.MeetsMinimum(s.Spec.MinimumValidSize)
}

package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// tempPrefix marks in-progress writes; watchers and listings skip them.
const tempPrefix = "."

// ArtifactStore implements driven.ArtifactStore on the local filesystem.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the cache directory if needed.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Path returns where an artifact lives. Only the base name is used.
func (s *ArtifactStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Stat reports presence and size. A missing file is not an error.
func (s *ArtifactStore) Stat(name string) (domain.LocalArtifact, error) {
	path := s.Path(name)
	local := domain.LocalArtifact{Name: name, LocalPath: path}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return local, nil
	}
	if err != nil {
		return local, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		return local, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	local.Present = true
	local.SizeBytes = info.Size()
	return local, nil
}

// Write streams fill into a temporary file and renames it over the
// artifact only when fill succeeds.
func (s *ArtifactStore) Write(name string, fill func(w io.Writer) (int64, error)) (int64, error) {
	path := s.Path(name)

	tmp, err := os.CreateTemp(s.dir, tempPrefix+filepath.Base(name)+".tmp.*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := fill(tmp)
	if err != nil {
		return n, err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return n, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return n, fmt.Errorf("commit artifact: %w", err)
	}
	committed = true
	return n, nil
}

// Remove deletes the local copy. A missing file is not an error.
func (s *ArtifactStore) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// CleanTemp removes leftover temporary files from interrupted writes.
func (s *ArtifactStore) CleanTemp() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsTempFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// IsTempFile reports whether a file name belongs to an in-progress write.
func IsTempFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, tempPrefix) && strings.Contains(base, ".tmp.")
}

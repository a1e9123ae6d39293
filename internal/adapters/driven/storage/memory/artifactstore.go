package memory

import (
	"bytes"
	"io"
	"path/filepath"
	"sync"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is an in-memory implementation of driven.ArtifactStore for
// testing. Paths are computed under dir but nothing touches the disk.
type ArtifactStore struct {
	mu    sync.RWMutex
	dir   string
	files map[string][]byte

	// RemoveErr, when set, is returned by every Remove call and the file is kept.
	RemoveErr error
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{
		dir:   dir,
		files: make(map[string][]byte),
	}
}

// Dir returns the nominal cache directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Path returns the nominal path for an artifact.
func (s *ArtifactStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Stat reports whether the artifact is held and its size.
func (s *ArtifactStore) Stat(name string) (domain.LocalArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	local := domain.LocalArtifact{Name: name, LocalPath: s.Path(name)}
	if data, ok := s.files[name]; ok {
		local.Present = true
		local.SizeBytes = int64(len(data))
	}
	return local, nil
}

// Write buffers fill's output and keeps it only when fill succeeds.
func (s *ArtifactStore) Write(name string, fill func(w io.Writer) (int64, error)) (int64, error) {
	var buf bytes.Buffer
	if _, err := fill(&buf); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = buf.Bytes()
	return int64(buf.Len()), nil
}

// Remove deletes the artifact.
func (s *ArtifactStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	delete(s.files, name)
	return nil
}

// Put seeds the store with content.
func (s *ArtifactStore) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), data...)
}

// Bytes returns the content held for name.
func (s *ArtifactStore) Bytes(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	return data, ok
}

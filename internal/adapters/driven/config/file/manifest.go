package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

// ManifestFileName is the manifest file inside the config directory.
const ManifestFileName = "artifacts.toml"

// manifest mirrors artifacts.toml:
//
//	[[artifact]]
//	name = "best_eligibility_model.pkl"
//	source = "gdrive://1AbC..."
//	min_size = 1000
type manifest struct {
	Artifacts []manifestEntry `toml:"artifact"`
}

type manifestEntry struct {
	Name    string `toml:"name"`
	Source  string `toml:"source"`
	MinSize int64  `toml:"min_size"`
}

// LoadManifest reads and parses the artifact manifest at path.
func LoadManifest(path string) (*domain.ArtifactTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest %s does not exist", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	table, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return table, nil
}

// ParseManifest parses manifest TOML. Unknown keys are rejected so a
// misspelt min_size does not silently become zero.
func ParseManifest(data []byte) (*domain.ArtifactTable, error) {
	var m manifest
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if len(m.Artifacts) == 0 {
		return nil, fmt.Errorf("%w: no [[artifact]] entries", domain.ErrInvalidInput)
	}

	specs := make([]domain.ArtifactSpec, len(m.Artifacts))
	for i, e := range m.Artifacts {
		specs[i] = domain.ArtifactSpec{
			Name:             e.Name,
			SourceLocator:    e.Source,
			MinimumValidSize: e.MinSize,
		}
	}
	return domain.NewArtifactTable(specs)
}

// WriteManifest writes specs to path in manifest format.
func WriteManifest(path string, specs []domain.ArtifactSpec) error {
	m := manifest{Artifacts: make([]manifestEntry, len(specs))}
	for i, s := range specs {
		m.Artifacts[i] = manifestEntry{Name: s.Name, Source: s.SourceLocator, MinSize: s.MinimumValidSize}
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

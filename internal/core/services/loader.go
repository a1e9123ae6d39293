package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// Ensure ArtifactLoader implements the interface.
var _ driving.ArtifactLoader = (*ArtifactLoader)(nil)

// ArtifactLoader decodes cached artifacts, re-downloading once when the
// cached copy passes the size check but cannot be decoded.
type ArtifactLoader struct {
	cache driving.CacheManager
}

// NewArtifactLoader creates a loader backed by the cache manager.
func NewArtifactLoader(cache driving.CacheManager) *ArtifactLoader {
	return &ArtifactLoader{cache: cache}
}

// Load ensures the artifact then hands its path to decode.
func (l *ArtifactLoader) Load(ctx context.Context, name string, decode driving.DecodeFunc) error {
	if l.cache == nil {
		return errors.New("load: cache manager not configured")
	}
	if decode == nil {
		return fmt.Errorf("%w: decode function is required", domain.ErrInvalidInput)
	}

	res, err := l.cache.Ensure(ctx, name, false)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	derr := decode(res.Path)
	if derr == nil {
		return nil
	}
	logger.Warn("Decoding %s failed, re-downloading: %v", name, derr)

	res, err = l.cache.Ensure(ctx, name, true)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if derr := decode(res.Path); derr != nil {
		return fmt.Errorf("%w: %s: %w (run 'emiprdict refresh' to re-download every artifact)",
			domain.ErrLoadFailure, name, derr)
	}
	return nil
}

package connectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.FetcherRegistry = (*Registry)(nil)

// Registry routes locators to the fetcher registered for their scheme.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]driven.Fetcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]driven.Fetcher)}
}

// Register adds a fetcher for a scheme, replacing any earlier one.
// Schemes are case-insensitive.
func (r *Registry) Register(scheme string, fetcher driven.Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[strings.ToLower(scheme)] = fetcher
}

// SupportedSchemes returns the registered schemes, sorted.
func (r *Registry) SupportedSchemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.fetchers))
	for s := range r.fetchers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Fetch streams the artifact at locator into dst.
// Transport errors are wrapped with domain.ErrFetchFailure. Context
// cancellation is passed through unchanged.
func (r *Registry) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	scheme := Scheme(locator)

	r.mu.RLock()
	fetcher, ok := r.fetchers[scheme]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedLocator, locator, strings.Join(r.SupportedSchemes(), ", "))
	}

	n, err := fetcher.Fetch(ctx, locator, dst)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrFetchFailure) || errors.Is(err, domain.ErrInvalidInput) {
		return n, err
	}
	return n, fmt.Errorf("%w: %w", domain.ErrFetchFailure, err)
}

// Scheme returns the lower-cased scheme of a locator, or "" when it has none.
func Scheme(locator string) string {
	return domain.ArtifactSpec{SourceLocator: locator}.Scheme()
}

// TrimScheme returns the locator without its "scheme://" prefix.
func TrimScheme(locator string) string {
	if idx := strings.Index(locator, "://"); idx > 0 {
		return locator[idx+3:]
	}
	return locator
}

// ContextReader aborts reads once ctx is done, so copies from sources
// that ignore contexts (local files) still honour cancellation.
type ContextReader struct {
	Ctx context.Context
	R   io.Reader
}

func (c ContextReader) Read(p []byte) (int, error) {
	if err := c.Ctx.Err(); err != nil {
		return 0, err
	}
	return c.R.Read(p)
}

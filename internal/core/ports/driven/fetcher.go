package driven

import (
	"context"
	"io"
)

// Fetcher streams the content behind a source locator into dst.
// Implementations return the number of bytes written. Transport and
// remote errors wrap domain.ErrFetchFailure.
type Fetcher interface {
	Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error)
}

// FetcherRegistry selects a Fetcher by locator scheme.
// It is itself a Fetcher so the cache manager never sees schemes.
type FetcherRegistry interface {
	Fetcher

	// Register binds a scheme (e.g. "https") to a fetcher.
	// A later registration for the same scheme replaces the earlier one.
	Register(scheme string, fetcher Fetcher)

	// SupportedSchemes returns the registered schemes in sorted order.
	SupportedSchemes() []string
}

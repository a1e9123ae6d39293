package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/Rupali110289/emiprdict/internal/connectors"
	"github.com/Rupali110289/emiprdict/internal/connectors/google"
	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Scheme is the locator scheme handled by this fetcher.
const Scheme = "gdrive"

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher downloads Drive files by ID.
type Fetcher struct {
	svc     *drive.Service
	limiter *google.RateLimiter
}

// NewFetcher creates a Drive fetcher. A nil limiter uses the Drive defaults.
func NewFetcher(svc *drive.Service, limiter *google.RateLimiter) *Fetcher {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.ServiceDrive)
	}
	return &Fetcher{svc: svc, limiter: limiter}
}

// FileID extracts the Drive file ID from a gdrive:// locator.
func FileID(locator string) (string, error) {
	if connectors.Scheme(locator) != Scheme {
		return "", fmt.Errorf("%w: %q is not a gdrive locator", domain.ErrInvalidInput, locator)
	}
	id := strings.TrimPrefix(connectors.TrimScheme(locator), "files/")
	id = strings.Trim(id, "/")
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("%w: malformed gdrive locator %q", domain.ErrInvalidInput, locator)
	}
	return id, nil
}

// Fetch streams the file content into dst.
func (f *Fetcher) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	id, err := FileID(locator)
	if err != nil {
		return 0, err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := f.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		if google.IsRateLimited(err) {
			f.limiter.RecordRateLimitError(retryAfter(err))
		}
		return 0, fmt.Errorf("download %s: %w", id, google.WrapError(err))
	}
	defer resp.Body.Close()

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read %s: %w", id, err)
	}
	return n, nil
}

// retryAfter reads Retry-After (seconds) from a googleapi error.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/time/rate"

	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

const (
	// DefaultUserAgent identifies the fetcher to remote servers.
	DefaultUserAgent = "emiprdict-fetcher/1.0"

	// maxInterstitials bounds confirmation pages followed per fetch.
	maxInterstitials = 3

	// maxPageSize bounds how much of an HTML response is buffered.
	maxPageSize = 1 << 20
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Options configures a Fetcher.
type Options struct {
	// RequestsPerSecond paces requests. Zero or less disables pacing.
	RequestsPerSecond float64
	Burst             int

	UserAgent string

	// Client overrides the HTTP client. Its Jar is replaced per fetch.
	Client *http.Client
}

// Fetcher downloads http(s) locators.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a web fetcher.
func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Fetcher{
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: ua,
	}
}

// Fetch streams the resource at locator into dst, following Drive
// confirmation pages.
func (f *Fetcher) Fetch(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return 0, fmt.Errorf("cookie jar: %w", err)
	}
	client := *f.client
	client.Jar = jar

	target := NormaliseDriveURL(locator)
	for hop := 0; hop <= maxInterstitials; hop++ {
		resp, err := f.get(ctx, &client, target)
		if err != nil {
			return 0, err
		}

		if !isHTML(resp) {
			n, err := io.Copy(dst, resp.Body)
			resp.Body.Close()
			if err != nil {
				return n, fmt.Errorf("read body: %w", err)
			}
			return n, nil
		}

		page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
		resp.Body.Close()
		if err != nil {
			return 0, fmt.Errorf("read page: %w", err)
		}

		next, ok := confirmURL(resp.Request.URL, page, jar.Cookies(resp.Request.URL))
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrHTMLPage, target)
		}
		logger.Debug("Following download confirmation for %s", locator)
		target = next
	}

	return 0, fmt.Errorf("%w: %s", ErrTooManyInterstitials, locator)
}

func (f *Fetcher) get(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))
		resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func isHTML(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds API calls. Asset downloads are bounded by the
// caller's context instead.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with helper methods.
type Client struct {
	gh          *gh.Client
	download    *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub client. An empty token makes unauthenticated
// requests.
func NewClient(ctx context.Context, token string, rps float64) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	download := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	return &Client{
		gh:          gh.NewClient(httpClient),
		download:    download,
		rateLimiter: NewRateLimiter(rps),
	}
}

// NewClientWithHTTPClient creates a client against a custom API base URL.
// Used for GitHub Enterprise and tests.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	c := gh.NewClient(httpClient)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		c.BaseURL = u
	}
	return &Client{
		gh:          c,
		download:    httpClient,
		rateLimiter: NewRateLimiter(0),
	}, nil
}

// GetRelease fetches a release by tag. The tag "latest" resolves to the
// latest published release.
func (c *Client) GetRelease(ctx context.Context, owner, repo, tag string) (*gh.RepositoryRelease, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var (
		release *gh.RepositoryRelease
		resp    *gh.Response
		err     error
	)
	if tag == "latest" {
		release, resp, err = c.gh.Repositories.GetLatestRelease(ctx, owner, repo)
	} else {
		release, resp, err = c.gh.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	}
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		err = c.wrapError(err, "get release")
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s@%s: %w", ErrReleaseNotFound, owner, repo, tag, err)
		}
		return nil, err
	}
	return release, nil
}

// DownloadReleaseAsset streams a release asset. The caller closes the reader.
func (c *Client) DownloadReleaseAsset(ctx context.Context, owner, repo string, id int64) (io.ReadCloser, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	rc, _, err := c.gh.Repositories.DownloadReleaseAsset(ctx, owner, repo, id, c.download)
	if err != nil {
		return nil, c.wrapError(err, "download asset")
	}
	if rc == nil {
		return nil, fmt.Errorf("download asset %d: empty response", id)
	}
	return rc, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}

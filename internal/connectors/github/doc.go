// Package github implements the Fetcher for github:// locators, which name a
// release asset:
//
//	github://<owner>/<repo>/<tag>/<asset>
//
// The tag "latest" resolves to the repository's latest published release.
//
// # Authentication
//
// Public repositories work unauthenticated (60 requests per hour). Set
// github.token to a personal access token to raise the limit to 5,000 per
// hour and to reach private repositories ('repo' scope).
//
// # Rate Limiting
//
// Requests are throttled proactively with a token bucket and reactively from
// the X-RateLimit-* response headers. See RateLimiter.
package github

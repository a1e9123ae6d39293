// Package google provides shared infrastructure for Google API fetchers.
//
// This package contains common utilities used by the drive fetcher including:
//   - Service factory for creating a Drive client from an API key or token
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	svc, err := google.NewDriveService(ctx, google.Credentials{APIKey: key})
//	fetcher := drive.NewFetcher(svc, google.NewRateLimiter(google.ServiceDrive))
//
// # Credentials
//
// Publicly shared files only need an API key (drive.api_key). Private files
// need an OAuth access token with the drive.readonly scope
// (drive.access_token). With neither, requests are sent unauthenticated.
package google

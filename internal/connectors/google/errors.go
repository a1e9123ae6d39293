package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions, or a file that is
	// not shared with the caller.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested file was not found.
	ErrNotFound = errors.New("google: file not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrQuotaExceeded indicates the download quota for a file was exceeded.
	ErrQuotaExceeded = errors.New("google: download quota exceeded")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || hasCode(err, http.StatusUnauthorized)
}

// IsNotFound returns true if the error indicates a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited) || hasCode(err, http.StatusTooManyRequests)
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// WrapError converts a Google API error to a more specific error.
// The original error stays in the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, err)
	case http.StatusForbidden:
		if isQuotaError(gerr) {
			return errors.Join(ErrQuotaExceeded, err)
		}
		return errors.Join(ErrForbidden, err)
	case http.StatusNotFound:
		return errors.Join(ErrNotFound, err)
	case http.StatusTooManyRequests:
		return errors.Join(ErrRateLimited, err)
	default:
		return err
	}
}

func isQuotaError(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if item.Reason == "downloadQuotaExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}

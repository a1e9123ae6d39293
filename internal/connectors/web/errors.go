package web

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrHTMLPage indicates the server answered with a web page instead of
	// the file, typically a private Drive link or an exhausted quota.
	ErrHTMLPage = errors.New("web: server returned an HTML page instead of the file")

	// ErrTooManyInterstitials indicates confirm pages kept coming back.
	ErrTooManyInterstitials = errors.New("web: too many download confirmation pages")
)

// StatusError is a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("web: GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

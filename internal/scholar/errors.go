package scholar

import (
	"errors"
	"fmt"
)

// Common errors returned by the scholar client.
var (
	// ErrNotFound indicates the profile or citation page does not exist.
	ErrNotFound = errors.New("not found on Google Scholar")

	// ErrBlocked indicates Google Scholar is refusing automated traffic
	// (captcha interstitial or HTTP 429).
	ErrBlocked = errors.New("blocked by Google Scholar")

	// ErrBadProxy indicates the configured proxy could not be used.
	ErrBadProxy = errors.New("proxy configuration invalid")

	// ErrInvalidResponse indicates a page that does not look like the
	// expected Scholar markup.
	ErrInvalidResponse = errors.New("unexpected page structure from Google Scholar")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error reaching Google Scholar")
)

// FetchError reports a non-success HTTP status for a page fetch.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Google Scholar returned HTTP %d for %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error indicates a missing profile or page.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == 404
	}
	return false
}

// IsBlocked returns true if the error indicates Scholar throttling or a
// captcha wall. Callers use this to suggest re-running with --proxy.
func IsBlocked(err error) bool {
	if errors.Is(err, ErrBlocked) {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == 429 || fe.StatusCode == 403
	}
	return false
}

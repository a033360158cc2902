package scholar

import (
	"fmt"
	"net/http"
	"net/url"
)

// NewProxyClient builds an HTTP client that routes through the given
// proxy URL. Supported schemes are http, https, and socks5. Callers treat
// ErrBadProxy as degraded, not fatal: log a warning and fall back to a
// direct client.
func NewProxyClient(proxyURL string) (*http.Client, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadProxy, err)
	}

	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBadProxy, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrBadProxy, proxyURL)
	}

	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyURL(u),
		},
	}, nil
}

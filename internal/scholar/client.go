package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Google Scholar host.
	BaseURL = "https://scholar.google.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit caps requests per second. The pipeline adds a longer
	// randomized delay between detail fetches on top of this.
	RateLimit = 1.0

	// DefaultPageSize is the number of publication rows requested per
	// profile page. 100 is the maximum Scholar serves.
	DefaultPageSize = 100

	// DefaultUserAgent identifies the tool. Scholar serves an empty shell
	// to clients with no User-Agent at all.
	DefaultUserAgent = "Mozilla/5.0 (compatible; autoscholar/1.0)"
)

// Client is a rate-limited HTTP client for Google Scholar profile pages.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	pageSize   int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for proxying or timeouts).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPageSize sets the profile pagination size.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLimiter replaces the request rate limiter. Tests pass
// rate.NewLimiter(rate.Inf, 0) to run without waits.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new Google Scholar client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
		pageSize:   DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetchDocument GETs a path relative to the base URL and parses the body.
// It waits on the rate limiter first and maps throttling responses to
// ErrBlocked.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", ErrBlocked, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, reqURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrInvalidResponse, err)
	}

	if isCaptchaPage(doc) {
		return nil, fmt.Errorf("%w: captcha interstitial", ErrBlocked)
	}

	return doc, nil
}

// FetchAuthor resolves a Scholar user ID to a profile with its full
// publication list, paginating through the profile table. Failure here is
// fatal for a generation run.
func (c *Client) FetchAuthor(ctx context.Context, userID string) (*Author, error) {
	if userID == "" {
		return nil, fmt.Errorf("empty Scholar user ID")
	}

	author := &Author{}

	for start := 0; ; start += c.pageSize {
		q := url.Values{
			"user":     {userID},
			"hl":       {"en"},
			"cstart":   {strconv.Itoa(start)},
			"pagesize": {strconv.Itoa(c.pageSize)},
		}
		doc, err := c.fetchDocument(ctx, "/citations?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("fetching profile page: %w", err)
		}

		if start == 0 {
			name, err := parseProfileName(doc)
			if err != nil {
				return nil, err
			}
			author.Name = name
		}

		pubs := parseProfileRows(doc)
		author.Publications = append(author.Publications, pubs...)

		// A short page means the table is exhausted.
		if len(pubs) < c.pageSize {
			break
		}
	}

	return author, nil
}

// FillPublication fetches the citation detail page for a publication and
// returns a copy with the full Bib populated. Row-level fields (title,
// year, the citation line) are kept when the detail page omits them.
// Failure is per-item; the caller logs and continues.
func (c *Client) FillPublication(ctx context.Context, pub Publication) (*Publication, error) {
	if pub.DetailPath == "" {
		return nil, fmt.Errorf("%w: publication has no detail link", ErrInvalidResponse)
	}

	doc, err := c.fetchDocument(ctx, pub.DetailPath)
	if err != nil {
		return nil, err
	}

	filled := pub
	if err := parseCitationPage(doc, &filled); err != nil {
		return nil, err
	}
	return &filled, nil
}

// Package http provides the network side of wikiscrape: a Fetcher that
// downloads article pages and a Server exposing the scraper as a JSON API.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/wikiscrape"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the fetcher to Wikipedia, which rejects
// requests without a descriptive agent.
const DefaultUserAgent = "wikiscrape/1.0 (+https://github.com/fwojciec/wikiscrape)"

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements wikiscrape.Fetcher at compile time.
var _ wikiscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves article pages over plain HTTP and decodes them to UTF-8.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
// Longer bodies are truncated.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Every failure,
// including non-200 responses, is reported as EFETCH. Client errors that a
// retry cannot fix are additionally marked wikiscrape.Permanent.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to fetch the page: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to fetch the page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to fetch the page: HTTP %d for %s", resp.StatusCode, url)
		if isPermanentStatus(resp.StatusCode) {
			return "", wikiscrape.Permanent(err)
		}
		return "", err
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to decode the page: %v", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to read the page: %v", err)
	}

	return string(data), nil
}

// isPermanentStatus reports whether a response status means retrying the
// same request will not help: client errors other than 408 and 429.
func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return code >= 400 && code < 500
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

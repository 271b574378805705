package wikiscrape

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs a single request for the URL and returns the body
	// decoded to UTF-8. Returns EFETCH on transport errors and non-2xx
	// responses. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases underlying resources.
	Close() error
}

package wikiscrape

import "context"

// BatchItem is the outcome for one URL of a batch. Failures are isolated
// per item: a failed item carries Error and no Result.
type BatchItem struct {
	URL     string  `json:"url"`
	Success bool    `json:"success"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Progress reports batch progress as items finish.
type Progress struct {
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is called as batch items complete.
type ProgressFunc func(Progress)

// Scraper runs the fetch-then-extract pipeline for article URLs.
// Implementations hide URL validation, fetch retries and concurrency.
type Scraper interface {
	// Scrape validates, fetches and extracts a single article.
	// Returns EINVALID before fetching if the URL is not an article URL.
	Scrape(ctx context.Context, url string, opts Options) (*Result, error)

	// ScrapeAll processes every URL independently and returns one item per
	// URL in input order. It only fails as a whole if ctx is canceled.
	ScrapeAll(ctx context.Context, urls []string, opts Options, progress ProgressFunc) ([]*BatchItem, error)
}

// Package scrape runs the fetch-then-extract pipeline for single articles
// and for batches of articles.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/wikiscrape"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of articles a batch processes at once.
const DefaultConcurrency = 4

// Ensure Service implements wikiscrape.Scraper at compile time.
var _ wikiscrape.Scraper = (*Service)(nil)

// Service validates article URLs, fetches them with retries and runs the
// extractor over the downloaded pages.
type Service struct {
	Fetcher   wikiscrape.Fetcher
	Extractor wikiscrape.Extractor

	// RetryDelays are the waits between fetch attempts. Nil means
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Concurrency bounds parallel batch work. Defaults to DefaultConcurrency.
	Concurrency int

	// Logger receives retry warnings. Optional.
	Logger *slog.Logger
}

// Scrape validates url, fetches it and extracts the requested fields.
// Invalid URLs fail with EINVALID before anything is fetched.
func (s *Service) Scrape(ctx context.Context, url string, opts wikiscrape.Options) (*wikiscrape.Result, error) {
	if err := wikiscrape.ValidateArticleURL(url); err != nil {
		return nil, err
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	html, err := FetchWithRetryDelays(ctx, url, s.Fetcher.Fetch, s.Logger, delays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return s.Extractor.Extract(&wikiscrape.Request{
		HTML:      []byte(html),
		SourceURL: url,
		Options:   opts,
	})
}

// ScrapeAll scrapes every URL independently. A failing URL yields a failed
// item and never affects the others. Items are returned in input order.
//
// Canceling ctx stops scheduling new URLs; URLs that never ran are reported
// as failed and ctx.Err() is returned alongside the items. The progress
// callback, if provided, is called once per finished URL and never
// concurrently.
func (s *Service) ScrapeAll(ctx context.Context, urls []string, opts wikiscrape.Options, progress wikiscrape.ProgressFunc) ([]*wikiscrape.BatchItem, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	items := make([]*wikiscrape.BatchItem, len(urls))
	total := len(urls)

	var (
		mu        sync.Mutex
		completed int
	)
	finish := func(i int, item *wikiscrape.BatchItem, err error) {
		mu.Lock()
		defer mu.Unlock()
		items[i] = item
		completed++
		if progress != nil {
			progress(wikiscrape.Progress{
				URL:       item.URL,
				Completed: completed,
				Total:     total,
				Err:       err,
			})
		}
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, url := range urls {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result, err := s.Scrape(ctx, url, opts)
			if err != nil {
				finish(i, &wikiscrape.BatchItem{URL: url, Error: wikiscrape.ErrorMessage(err)}, err)
				return nil
			}
			finish(i, &wikiscrape.BatchItem{URL: url, Success: true, Result: result}, nil)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i, item := range items {
			if item == nil {
				items[i] = &wikiscrape.BatchItem{URL: urls[i], Error: err.Error()}
			}
		}
		return items, err
	}

	return items, nil
}

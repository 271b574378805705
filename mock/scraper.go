package mock

import (
	"context"

	"github.com/fwojciec/wikiscrape"
)

var _ wikiscrape.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of wikiscrape.Scraper.
type Scraper struct {
	ScrapeFn    func(ctx context.Context, url string, opts wikiscrape.Options) (*wikiscrape.Result, error)
	ScrapeAllFn func(ctx context.Context, urls []string, opts wikiscrape.Options, progress wikiscrape.ProgressFunc) ([]*wikiscrape.BatchItem, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string, opts wikiscrape.Options) (*wikiscrape.Result, error) {
	return s.ScrapeFn(ctx, url, opts)
}

func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, opts wikiscrape.Options, progress wikiscrape.ProgressFunc) ([]*wikiscrape.BatchItem, error) {
	return s.ScrapeAllFn(ctx, urls, opts, progress)
}

package scrape_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/mock"
	"github.com/fwojciec/wikiscrape/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleExtractor returns a result titled after the fetched HTML.
func titleExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(req *wikiscrape.Request) (*wikiscrape.Result, error) {
			return &wikiscrape.Result{
				Title:     string(req.HTML),
				SourceURL: req.SourceURL,
				Success:   true,
			}, nil
		},
	}
}

// pageFetcher returns the article name of the URL as HTML.
func pageFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return strings.TrimPrefix(url, "https://en.wikipedia.org/wiki/"), nil
		},
	}
}

func TestService_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts with options", func(t *testing.T) {
		t.Parallel()

		var gotReq *wikiscrape.Request
		svc := &scrape.Service{
			Fetcher: pageFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(req *wikiscrape.Request) (*wikiscrape.Result, error) {
					gotReq = req
					return &wikiscrape.Result{Title: "Go"}, nil
				},
			},
			RetryDelays: []time.Duration{},
		}

		opts := wikiscrape.Options{IncludeTables: true}
		result, err := svc.Scrape(context.Background(), "https://en.wikipedia.org/wiki/Go", opts)

		require.NoError(t, err)
		assert.Equal(t, "Go", result.Title)
		assert.Equal(t, []byte("Go"), gotReq.HTML)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Go", gotReq.SourceURL)
		assert.Equal(t, opts, gotReq.Options)
	})

	t.Run("rejects invalid URL without fetching", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					t.Fatal("fetch must not be called")
					return "", nil
				},
			},
			Extractor: titleExtractor(),
		}

		_, err := svc.Scrape(context.Background(), "https://example.com/wiki/Go", wikiscrape.DefaultOptions())

		assert.Equal(t, wikiscrape.EINVALID, wikiscrape.ErrorCode(err))
		assert.Equal(t, "Invalid Wikipedia URL format", wikiscrape.ErrorMessage(err))
	})

	t.Run("retries fetch failures", func(t *testing.T) {
		t.Parallel()

		var attempts int
		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					attempts++
					if attempts == 1 {
						return "", wikiscrape.Errorf(wikiscrape.EFETCH, "HTTP 503")
					}
					return "Go", nil
				},
			},
			Extractor:   titleExtractor(),
			RetryDelays: []time.Duration{0},
		}

		result, err := svc.Scrape(context.Background(), "https://en.wikipedia.org/wiki/Go", wikiscrape.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, "Go", result.Title)
		assert.Equal(t, 2, attempts)
	})

	t.Run("keeps fetch error code", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return "", wikiscrape.Errorf(wikiscrape.EFETCH, "HTTP 404")
				},
			},
			Extractor:   titleExtractor(),
			RetryDelays: []time.Duration{},
		}

		_, err := svc.Scrape(context.Background(), "https://en.wikipedia.org/wiki/Missing", wikiscrape.DefaultOptions())

		assert.Equal(t, wikiscrape.EFETCH, wikiscrape.ErrorCode(err))
		assert.Equal(t, "HTTP 404", wikiscrape.ErrorMessage(err))
	})

	t.Run("returns extractor errors", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{
			Fetcher: pageFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(*wikiscrape.Request) (*wikiscrape.Result, error) {
					return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "Could not find content on the page")
				},
			},
			RetryDelays: []time.Duration{},
		}

		_, err := svc.Scrape(context.Background(), "https://en.wikipedia.org/wiki/Go", wikiscrape.DefaultOptions())

		assert.Equal(t, wikiscrape.ENOTFOUND, wikiscrape.ErrorCode(err))
	})
}

func TestService_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					// Earlier URLs finish later.
					if strings.HasSuffix(url, "/A") {
						time.Sleep(20 * time.Millisecond)
					}
					return strings.TrimPrefix(url, "https://en.wikipedia.org/wiki/"), nil
				},
			},
			Extractor:   titleExtractor(),
			Concurrency: 3,
		}

		urls := []string{
			"https://en.wikipedia.org/wiki/A",
			"https://en.wikipedia.org/wiki/B",
			"https://en.wikipedia.org/wiki/C",
		}
		items, err := svc.ScrapeAll(context.Background(), urls, wikiscrape.DefaultOptions(), nil)

		require.NoError(t, err)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.Equal(t, urls[i], item.URL)
			assert.True(t, item.Success)
		}
		assert.Equal(t, "A", items[0].Result.Title)
		assert.Equal(t, "C", items[2].Result.Title)
	})

	t.Run("isolates failures", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		var mu sync.Mutex
		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					fetched = append(fetched, url)
					mu.Unlock()
					if strings.HasSuffix(url, "/Down") {
						return "", wikiscrape.Errorf(wikiscrape.EFETCH, "Failed to fetch the page: HTTP 500")
					}
					return "ok", nil
				},
			},
			Extractor:   titleExtractor(),
			RetryDelays: []time.Duration{},
		}

		urls := []string{
			"https://en.wikipedia.org/wiki/Up",
			"not a url",
			"https://en.wikipedia.org/wiki/Down",
		}
		items, err := svc.ScrapeAll(context.Background(), urls, wikiscrape.DefaultOptions(), nil)

		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.True(t, items[0].Success)
		assert.False(t, items[1].Success)
		assert.Equal(t, "Invalid Wikipedia URL format", items[1].Error)
		assert.Nil(t, items[1].Result)
		assert.False(t, items[2].Success)
		assert.Equal(t, "Failed to fetch the page: HTTP 500", items[2].Error)
		assert.NotContains(t, fetched, "not a url")
	})

	t.Run("reports progress for every URL", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{
			Fetcher:     pageFetcher(),
			Extractor:   titleExtractor(),
			Concurrency: 2,
		}

		var events []wikiscrape.Progress
		urls := []string{
			"https://en.wikipedia.org/wiki/A",
			"bad",
			"https://en.wikipedia.org/wiki/C",
		}
		_, err := svc.ScrapeAll(context.Background(), urls, wikiscrape.DefaultOptions(), func(p wikiscrape.Progress) {
			events = append(events, p)
		})

		require.NoError(t, err)
		require.Len(t, events, 3)
		var failed int
		for i, e := range events {
			assert.Equal(t, i+1, e.Completed)
			assert.Equal(t, 3, e.Total)
			if e.Err != nil {
				failed++
				assert.Equal(t, "bad", e.URL)
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					n := inFlight.Add(1)
					defer inFlight.Add(-1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					return "ok", nil
				},
			},
			Extractor:   titleExtractor(),
			Concurrency: 2,
		}

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://en.wikipedia.org/wiki/Page"
		}
		items, err := svc.ScrapeAll(context.Background(), urls, wikiscrape.DefaultOptions(), nil)

		require.NoError(t, err)
		assert.Len(t, items, 8)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("stops scheduling when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		svc := &scrape.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					cancel()
					return "ok", nil
				},
			},
			Extractor:   titleExtractor(),
			Concurrency: 1,
		}

		urls := []string{
			"https://en.wikipedia.org/wiki/A",
			"https://en.wikipedia.org/wiki/B",
			"https://en.wikipedia.org/wiki/C",
		}
		items, err := svc.ScrapeAll(ctx, urls, wikiscrape.DefaultOptions(), nil)

		require.True(t, errors.Is(err, context.Canceled))
		require.Len(t, items, 3)
		assert.True(t, items[0].Success)
		assert.False(t, items[2].Success)
		assert.Equal(t, urls[2], items[2].URL)
	})

	t.Run("returns empty result for no URLs", func(t *testing.T) {
		t.Parallel()

		svc := &scrape.Service{Fetcher: pageFetcher(), Extractor: titleExtractor()}

		items, err := svc.ScrapeAll(context.Background(), nil, wikiscrape.DefaultOptions(), nil)

		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

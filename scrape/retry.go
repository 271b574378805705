package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikiscrape"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// FetchWithRetryDelays attempts to fetch a URL, retrying once per entry of
// delays after waiting that long. EINVALID and permanent errors are
// returned immediately since retrying cannot fix them.
// The logger, if not nil, receives one warning per retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if wikiscrape.ErrorCode(err) == wikiscrape.EINVALID || wikiscrape.IsPermanent(err) {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if logger != nil {
			logger.Warn("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/wikiscrape"
)

// Ensure LoggingExtractor implements wikiscrape.Extractor.
var _ wikiscrape.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   wikiscrape.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next wikiscrape.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(req *wikiscrape.Request) (result *wikiscrape.Result, err error) {
	defer func(begin time.Time) {
		var url, title string
		var size, chars, tables int
		if req != nil {
			url = req.SourceURL
			size = len(req.HTML)
		}
		if result != nil {
			title = result.Title
			chars = len(result.Content)
			tables = len(result.Tables)
		}
		e.logger.Info("extract",
			"url", url,
			"bytes", size,
			"title", title,
			"chars", chars,
			"tables", tables,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(req)
}

package goquery

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wikiscrape"
)

// Ensure Extractor implements wikiscrape.Extractor at compile time.
var _ wikiscrape.Extractor = (*Extractor)(nil)

// Extractor runs the region selector and the requested field extractors
// over one article page. It keeps no per-run state and is safe for
// concurrent use.
type Extractor struct {
	logger            *slog.Logger
	summaryParagraphs int
	summaryMinLength  int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used to report degraded extractions, such as
// a missing page heading. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithSummaryLimits sets how many leading paragraphs the summary considers
// and the length a paragraph must exceed to be included.
// Defaults to DefaultSummaryParagraphs and DefaultSummaryMinLength.
func WithSummaryLimits(paragraphs, minLength int) Option {
	return func(e *Extractor) {
		e.summaryParagraphs = paragraphs
		e.summaryMinLength = minLength
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger:            slog.New(slog.DiscardHandler),
		summaryParagraphs: DefaultSummaryParagraphs,
		summaryMinLength:  DefaultSummaryMinLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes the request's HTML and returns the extracted record.
// The source URL is only used to absolutize links and images.
func (e *Extractor) Extract(req *wikiscrape.Request) (*wikiscrape.Result, error) {
	if req == nil {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "extraction request required")
	}

	doc, err := Load(req.HTML)
	if err != nil {
		return nil, err
	}

	region, err := SelectRegion(doc)
	if err != nil {
		return nil, err
	}
	if region.Title == wikiscrape.UnknownTitle {
		e.logger.Debug("page heading not found", "url", req.SourceURL)
	}

	texts := ParagraphTexts(region.Prose)
	paragraphs := nonEmpty(texts)
	content := strings.Join(paragraphs, wikiscrape.ParagraphSeparator)

	result := &wikiscrape.Result{
		Title:       region.Title,
		Content:     content,
		Summary:     Summarize(texts, e.summaryParagraphs, e.summaryMinLength),
		SourceURL:   req.SourceURL,
		Success:     true,
		Message:     wikiscrape.SuccessMessage,
		ContentHash: hashContent(content),
	}

	opts := req.Options
	origin := Origin(req.SourceURL)
	if opts.IncludeMetadata {
		result.Metadata = ExtractMetadata(doc)
	}
	if opts.IncludeLinks {
		result.Links = ExtractLinks(region.Prose, origin)
	}
	if opts.IncludeImages {
		result.Images = ExtractImages(region.Prose, origin)
	}
	if opts.IncludeTables {
		result.Tables = ExtractTables(region.Raw)
		for i, t := range result.Tables {
			if len(t.Headers) == 0 {
				e.logger.Debug("table without header row", "url", req.SourceURL, "table", i)
			}
		}
	}

	return result, nil
}

// hashContent computes the xxHash of content as a fixed-width hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

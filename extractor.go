package wikiscrape

import (
	"regexp"
)

// Fixed values of an extraction result.
const (
	// UnknownTitle replaces the title when the page heading is missing.
	UnknownTitle = "Unknown Title"

	// SuccessMessage is reported by every successful extraction.
	SuccessMessage = "Content extracted successfully"

	// ParagraphSeparator joins paragraphs in Content and Summary.
	ParagraphSeparator = "\n\n"
)

// Options selects the optional fields of an extraction. Each flag controls
// exactly one field of Result and never implies another.
type Options struct {
	IncludeMetadata bool `json:"include_metadata" yaml:"metadata"`
	IncludeLinks    bool `json:"include_links" yaml:"links"`
	IncludeImages   bool `json:"include_images" yaml:"images"`
	IncludeTables   bool `json:"include_tables" yaml:"tables"`
}

// DefaultOptions returns the options used when a caller does not choose:
// metadata on, everything else off.
func DefaultOptions() Options {
	return Options{IncludeMetadata: true}
}

// Request is the input of a single extraction run.
type Request struct {
	HTML      []byte
	SourceURL string
	Options   Options
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	return ValidateArticleURL(r.SourceURL)
}

// Result is the normalized record extracted from an article page.
//
// Metadata, Links, Images and Tables are nil exactly when the corresponding
// option was off. When requested they are non-nil, possibly empty, so that
// JSON distinguishes "not requested" (null) from "none found" ([]).
type Result struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Metadata    *Metadata `json:"metadata"`
	Links       []string  `json:"links"`
	Images      []string  `json:"images"`
	Tables      []Table   `json:"tables"`
	SourceURL   string    `json:"url"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	ContentHash string    `json:"content_hash"`
}

// Metadata holds page-level facts outside the article body.
type Metadata struct {
	Language     string   `json:"language"`
	LastModified *string  `json:"last_modified"`
	PageID       *string  `json:"page_id"`
	Categories   []string `json:"categories"`
}

// Table is an HTML table flattened into a header row and data rows.
// Once headers are known every row has exactly len(Headers) cells.
type Table struct {
	Caption *string    `json:"caption"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Extractor converts a fetched article page into a Result.
type Extractor interface {
	// Extract runs every requested extractor over req.HTML.
	// Returns EPARSE if the HTML cannot be parsed and ENOTFOUND if the page
	// has no content region. A Result is returned only on full success.
	Extract(req *Request) (*Result, error)
}

// articleURLRe matches article URLs on any language edition.
var articleURLRe = regexp.MustCompile(`^https?://[a-z]+(-[a-z]+)*\.wikipedia\.org/wiki/.+`)

// ValidateArticleURL returns EINVALID unless rawURL points at a Wikipedia
// article, e.g. https://en.wikipedia.org/wiki/Go_(programming_language).
func ValidateArticleURL(rawURL string) error {
	if !articleURLRe.MatchString(rawURL) {
		return Errorf(EINVALID, "Invalid Wikipedia URL format")
	}
	return nil
}

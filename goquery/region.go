package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/wikiscrape"
)

var (
	titleSel   = cascadia.MustCompile("h1#firstHeading")
	contentSel = cascadia.MustCompile("div#mw-content-text")
	tableSel   = cascadia.MustCompile("table")

	// noiseSel matches non-prose elements dropped before text extraction.
	noiseSel = cascadia.MustCompile(
		"script, style, noscript, sup.reference, span.mw-editsection, " +
			"nav, .navbox, .vertical-navbox, [role=navigation]",
	)
)

// Region is the part of an article page the extractors work on.
type Region struct {
	// Title is the normalized page heading, or wikiscrape.UnknownTitle.
	Title string

	// Raw is the content container exactly as parsed. Table extraction
	// reads from here.
	Raw *goquery.Selection

	// Prose is a detached copy of Raw with scripts, styles, reference
	// markers, navigation boxes and tables removed.
	Prose *goquery.Selection
}

// SelectRegion locates the page heading and the content container.
// A missing heading falls back to wikiscrape.UnknownTitle; a missing
// content container returns ENOTFOUND. The document is not modified.
func SelectRegion(doc *goquery.Document) (*Region, error) {
	raw := doc.FindMatcher(contentSel).First()
	if raw.Length() == 0 {
		return nil, wikiscrape.Errorf(wikiscrape.ENOTFOUND, "Could not find content on the page")
	}

	title := wikiscrape.Normalize(doc.FindMatcher(titleSel).First().Text())
	if title == "" {
		title = wikiscrape.UnknownTitle
	}

	prose := raw.Clone()
	prose.FindMatcher(noiseSel).Remove()
	prose.FindMatcher(tableSel).Remove()

	return &Region{
		Title: title,
		Raw:   raw,
		Prose: prose,
	}, nil
}

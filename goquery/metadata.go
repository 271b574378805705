package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/wikiscrape"
)

// UnknownLanguage is reported when the page declares no language.
const UnknownLanguage = "unknown"

var (
	htmlSel         = cascadia.MustCompile("html")
	lastModifiedSel = cascadia.MustCompile("#footer-info-lastmod")
	pageIDSel       = cascadia.MustCompile(`meta[name="page_id"]`)
	scriptSel       = cascadia.MustCompile("script")
	categorySel     = cascadia.MustCompile("a.mw-category-link, #mw-normal-catlinks li a")

	// articleIDRe finds the page ID in MediaWiki's inline page configuration.
	articleIDRe = regexp.MustCompile(`"wgArticleId"\s*:\s*(\d+)`)
)

// ExtractMetadata collects page-level metadata from the whole document.
// Every field degrades to a default rather than failing.
func ExtractMetadata(doc *goquery.Document) *wikiscrape.Metadata {
	md := &wikiscrape.Metadata{
		Language:   UnknownLanguage,
		Categories: []string{},
	}

	if lang, _ := doc.FindMatcher(htmlSel).First().Attr("lang"); strings.TrimSpace(lang) != "" {
		md.Language = strings.TrimSpace(lang)
	}

	if text := wikiscrape.Normalize(doc.FindMatcher(lastModifiedSel).First().Text()); text != "" {
		md.LastModified = &text
	}

	md.PageID = pageID(doc)

	doc.FindMatcher(categorySel).Each(func(_ int, a *goquery.Selection) {
		if text := wikiscrape.Normalize(a.Text()); text != "" {
			md.Categories = append(md.Categories, text)
		}
	})

	return md
}

// pageID prefers an explicit page_id meta tag and falls back to the
// wgArticleId value of the inline page configuration script.
func pageID(doc *goquery.Document) *string {
	if id, _ := doc.FindMatcher(pageIDSel).First().Attr("content"); strings.TrimSpace(id) != "" {
		id = strings.TrimSpace(id)
		return &id
	}

	var id *string
	doc.FindMatcher(scriptSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := articleIDRe.FindStringSubmatch(s.Text()); m != nil && m[1] != "0" {
			id = &m[1]
			return false
		}
		return true
	})
	return id
}

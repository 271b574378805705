package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/wikiscrape"
)

// Default summary limits.
const (
	DefaultSummaryParagraphs = 3
	DefaultSummaryMinLength  = 50
)

var paragraphSel = cascadia.MustCompile("p")

// ParagraphTexts returns the normalized text of every paragraph element in
// the region, in document order. Paragraphs that normalize to empty are
// kept as empty strings, so positions match the markup.
func ParagraphTexts(region *goquery.Selection) []string {
	texts := []string{}
	region.FindMatcher(paragraphSel).Each(func(_ int, p *goquery.Selection) {
		texts = append(texts, wikiscrape.Normalize(p.Text()))
	})
	return texts
}

// Paragraphs returns the normalized text of every paragraph in the region,
// in document order, skipping paragraphs that normalize to empty.
func Paragraphs(region *goquery.Selection) []string {
	return nonEmpty(ParagraphTexts(region))
}

func nonEmpty(texts []string) []string {
	out := []string{}
	for _, text := range texts {
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Summarize joins those of the first maxParagraphs paragraphs that are
// longer than minLength characters. Shorter ones are usually hatnotes or
// disambiguation lines rather than prose. The window is positional: pass
// ParagraphTexts so that empty paragraph elements use up a slot.
func Summarize(paragraphs []string, maxParagraphs, minLength int) string {
	var parts []string
	for i, p := range paragraphs {
		if i >= maxParagraphs {
			break
		}
		if p != "" && utf8.RuneCountInString(p) > minLength {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, wikiscrape.ParagraphSeparator)
}

// Package goquery implements the article extraction engine on top of
// PuerkitoBio/goquery. Each extractor is a pure function over a parsed
// document or one of its regions; Extractor wires them together.
package goquery

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikiscrape"
	"golang.org/x/net/html"
)

// Load parses raw HTML into a document tree.
// Returns EPARSE if the input cannot be parsed. Empty input parses to an
// empty document, which has no content region.
func Load(raw []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EPARSE, "failed to parse HTML: %v", err)
	}

	return goquery.NewDocumentFromNode(root), nil
}

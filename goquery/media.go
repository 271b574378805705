package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// DefaultOrigin is used to absolutize paths when the source URL has no host.
const DefaultOrigin = "https://en.wikipedia.org"

// articlePrefix is the path prefix of article links.
const articlePrefix = "/wiki/"

// adminNamespaces are page namespaces that are not articles.
var adminNamespaces = []string{
	"Special:",
	"Help:",
	"Wikipedia:",
	"Talk:",
	"User:",
	"User_talk:",
	"Template:",
	"Template_talk:",
	"MediaWiki:",
	"Module:",
	"File:",
}

var (
	anchorSel = cascadia.MustCompile("a[href]")
	imageSel  = cascadia.MustCompile("img[src]")
)

// Origin returns the scheme and host of sourceURL, e.g.
// "https://de.wikipedia.org". Falls back to DefaultOrigin.
func Origin(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return DefaultOrigin
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}

// ExtractLinks returns absolute URLs of the article links in the region,
// in document order. Links into administrative namespaces are skipped.
func ExtractLinks(region *goquery.Selection, origin string) []string {
	links := []string{}
	region.FindMatcher(anchorSel).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !isArticlePath(href) {
			return
		}
		links = append(links, origin+href)
	})
	return links
}

// isArticlePath reports whether href is a /wiki/ path outside the
// administrative namespaces.
func isArticlePath(href string) bool {
	title, ok := strings.CutPrefix(href, articlePrefix)
	if !ok || title == "" {
		return false
	}
	for _, ns := range adminNamespaces {
		if strings.HasPrefix(title, ns) {
			return false
		}
	}
	return true
}

// ExtractImages returns the image sources of the region as absolute URLs,
// in document order. Inline data URIs are skipped.
func ExtractImages(region *goquery.Selection, origin string) []string {
	images := []string{}
	region.FindMatcher(imageSel).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		switch {
		case src == "", strings.HasPrefix(src, "data:"):
			return
		case strings.HasPrefix(src, "//"):
			images = append(images, "https:"+src)
		case strings.HasPrefix(src, "/"):
			images = append(images, origin+src)
		default:
			images = append(images, src)
		}
	})
	return images
}

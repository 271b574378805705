package wikiscrape

import (
	"regexp"
	"strings"
)

// citationRe matches bracketed numeric reference markers such as "[12]".
var citationRe = regexp.MustCompile(`\[\p{Nd}+\]`)

// editMarker is the section edit affordance left behind in heading text.
const editMarker = "[edit]"

// Normalize collapses whitespace and strips citation and edit markers from
// extracted text. It is total over any input and idempotent.
func Normalize(s string) string {
	s = collapseSpace(s)
	if !strings.Contains(s, "[") {
		return s
	}

	// Removing one marker can splice another together ("[[1]2]"), so strip
	// until the text is stable.
	for {
		stripped := strings.ReplaceAll(citationRe.ReplaceAllString(s, ""), editMarker, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	return collapseSpace(s)
}

// collapseSpace replaces every run of Unicode whitespace with a single
// space and trims both ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

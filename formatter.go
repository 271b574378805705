package wikiscrape

import (
	"strconv"
	"strings"
)

// FormatResult formats a short plain-text digest of a result for terminals.
// Falls back to the source URL when the title is empty and omits lines for
// fields that were not requested.
func FormatResult(r *Result) string {
	if r == nil {
		return ""
	}

	header := r.Title
	if header == "" {
		header = r.SourceURL
	}

	var b strings.Builder
	b.WriteString("## " + header + "\n")
	if r.Summary != "" {
		b.WriteString(r.Summary + "\n")
	}
	b.WriteString("\nSource: " + r.SourceURL)
	b.WriteString("\nContent: " + strconv.Itoa(len(r.Content)) + " characters")
	if r.Metadata != nil {
		b.WriteString("\nLanguage: " + r.Metadata.Language)
		b.WriteString("\nCategories: " + strconv.Itoa(len(r.Metadata.Categories)))
	}
	if r.Links != nil {
		b.WriteString("\nLinks: " + strconv.Itoa(len(r.Links)))
	}
	if r.Images != nil {
		b.WriteString("\nImages: " + strconv.Itoa(len(r.Images)))
	}
	if r.Tables != nil {
		b.WriteString("\nTables: " + strconv.Itoa(len(r.Tables)))
	}
	return b.String()
}

// FormatBatch formats batch items one per line with an ok/fail marker.
func FormatBatch(items []*BatchItem) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Success && item.Result != nil {
			lines = append(lines, "ok   "+item.URL+" ("+item.Result.Title+")")
			continue
		}
		lines = append(lines, "fail "+item.URL+": "+item.Error)
	}
	return strings.Join(lines, "\n")
}

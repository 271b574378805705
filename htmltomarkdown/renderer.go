// Package htmltomarkdown renders extraction results as Markdown using
// the html-to-markdown converter.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/wikiscrape"
	"golang.org/x/net/html"
)

// Ensure Renderer implements wikiscrape.Renderer at compile time.
var _ wikiscrape.Renderer = (*Renderer)(nil)

// Renderer turns a Result into a Markdown document. The result is first
// laid out as clean HTML and then converted, so escaping and table
// formatting follow the converter's rules.
type Renderer struct {
	conv *converter.Converter
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Renderer{conv: conv}
}

// Render converts result into Markdown: title, summary quote, body
// paragraphs, tables, then link, image and category lists when present.
func (r *Renderer) Render(result *wikiscrape.Result) (string, error) {
	if result == nil {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "result required")
	}

	md, err := r.conv.ConvertString(layout(result))
	if err != nil {
		return "", err
	}

	return md, nil
}

// layout builds the HTML document that Render converts.
func layout(result *wikiscrape.Result) string {
	var b strings.Builder

	tag(&b, "h1", result.Title)
	if result.Summary != "" {
		b.WriteString("<blockquote>")
		tag(&b, "p", result.Summary)
		b.WriteString("</blockquote>")
	}
	for _, p := range strings.Split(result.Content, wikiscrape.ParagraphSeparator) {
		if p != "" {
			tag(&b, "p", p)
		}
	}

	if len(result.Tables) > 0 {
		tag(&b, "h2", "Tables")
		for _, t := range result.Tables {
			writeTable(&b, t)
		}
	}

	if len(result.Links) > 0 {
		tag(&b, "h2", "Links")
		writeList(&b, result.Links, true)
	}
	if len(result.Images) > 0 {
		tag(&b, "h2", "Images")
		writeList(&b, result.Images, true)
	}
	if result.Metadata != nil && len(result.Metadata.Categories) > 0 {
		tag(&b, "h2", "Categories")
		writeList(&b, result.Metadata.Categories, false)
	}

	if result.SourceURL != "" {
		b.WriteString("<p>Source: ")
		link(&b, result.SourceURL)
		b.WriteString("</p>")
	}

	return b.String()
}

func writeTable(b *strings.Builder, t wikiscrape.Table) {
	if t.Caption != nil {
		b.WriteString("<p><strong>")
		b.WriteString(html.EscapeString(*t.Caption))
		b.WriteString("</strong></p>")
	}
	b.WriteString("<table>")
	if len(t.Headers) > 0 {
		b.WriteString("<thead><tr>")
		for _, h := range t.Headers {
			tag(b, "th", h)
		}
		b.WriteString("</tr></thead>")
	}
	b.WriteString("<tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			tag(b, "td", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func writeList(b *strings.Builder, items []string, links bool) {
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>")
		if links {
			link(b, item)
		} else {
			b.WriteString(html.EscapeString(item))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}

func link(b *strings.Builder, url string) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(url))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(url))
	b.WriteString("</a>")
}

func tag(b *strings.Builder, name, text string) {
	b.WriteString("<" + name + ">")
	b.WriteString(html.EscapeString(text))
	b.WriteString("</" + name + ">")
}

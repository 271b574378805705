package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/wikiscrape"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	opts := c.Options()

	var (
		result *wikiscrape.Result
		err    error
	)
	if c.File != "" {
		result, err = c.extractFile(deps, opts)
	} else {
		result, err = deps.Scraper.Scrape(deps.Ctx, c.URL, opts)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		return err
	}

	out, err := formatOutput(deps, c.Format, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

// extractFile runs the extractor over a saved page, using the URL only as
// the source for absolute links.
func (c *ExtractCmd) extractFile(deps *Dependencies, opts wikiscrape.Options) (*wikiscrape.Result, error) {
	if err := wikiscrape.ValidateArticleURL(c.URL); err != nil {
		return nil, err
	}

	html, err := os.ReadFile(c.File)
	if err != nil {
		return nil, err
	}

	return deps.Extractor.Extract(&wikiscrape.Request{
		HTML:      html,
		SourceURL: c.URL,
		Options:   opts,
	})
}

func formatOutput(deps *Dependencies, format string, result *wikiscrape.Result) (string, error) {
	switch format {
	case "markdown":
		return deps.Renderer.Render(result)
	case "text":
		return wikiscrape.FormatResult(result), nil
	default:
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

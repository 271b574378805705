package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/sqlite"
)

// Run executes the archive command.
func (c *ArchiveCmd) Run(deps *Dependencies) error {
	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open archive at %q: %w", c.DB, err)
	}
	defer db.Close()

	if c.URL != "" {
		article, err := sqlite.FindArticleByURL(deps.Ctx, db, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
			return err
		}
		b, err := json.MarshalIndent(article.Result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, string(b))
		return nil
	}

	filter := sqlite.ArticleFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Title != "" {
		filter.Title = &c.Title
	}
	articles, err := sqlite.FindArticles(deps.Ctx, db, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'wikiscrape batch --db' to archive some.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", a.SavedAt.Format("2006-01-02 15:04"), a.Result.Title, a.Result.SourceURL)
	}

	return nil
}

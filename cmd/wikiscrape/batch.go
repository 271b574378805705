package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/fs"
	"github.com/fwojciec/wikiscrape/sqlite"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if c.Markdown && c.Out == "" {
		fmt.Fprintln(deps.Stderr, "error: --markdown requires --out")
		return wikiscrape.Errorf(wikiscrape.EINVALID, "--markdown requires --out")
	}

	progress := func(p wikiscrape.Progress) {
		status := "ok"
		if p.Err != nil {
			status = "fail"
		}
		fmt.Fprintf(deps.Stderr, "[%d/%d] %s %s\n", p.Completed, p.Total, status, p.URL)
	}

	// An interrupted batch still returns one item per URL; the finished
	// ones are written out before reporting the interruption.
	items, interrupted := deps.Scraper.ScrapeAll(deps.Ctx, c.URLs, c.Options(), progress)
	if interrupted != nil && items == nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", interrupted)
		return interrupted
	}

	if c.DB != "" {
		if err := c.archive(deps, items); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
			return err
		}
	}

	if c.Out == "" {
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, string(b))
	} else {
		if err := c.save(deps, items); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, wikiscrape.FormatBatch(items))
	}

	if interrupted != nil {
		fmt.Fprintf(deps.Stderr, "error: batch interrupted: %v\n", interrupted)
		return fmt.Errorf("batch interrupted: %w", interrupted)
	}

	var failed int
	for _, item := range items {
		if !item.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d articles failed", failed, len(items))
	}
	return nil
}

// save writes the successful results into the output directory, replacing
// it only when every write succeeded.
func (c *BatchCmd) save(deps *Dependencies, items []*wikiscrape.BatchItem) error {
	dir := filepath.Clean(c.Out)
	var opts []fs.Option
	if c.Markdown {
		opts = append(opts, fs.WithRenderer(deps.Renderer))
	}
	return saveAll(context.WithoutCancel(deps.Ctx), fs.NewResultStore(filepath.Dir(dir), filepath.Base(dir), opts...), items)
}

// archive stores the successful results in the SQLite archive in one
// transaction.
func (c *BatchCmd) archive(deps *Dependencies, items []*wikiscrape.BatchItem) error {
	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open archive at %q: %w", c.DB, err)
	}
	defer db.Close()

	return saveAll(context.WithoutCancel(deps.Ctx), sqlite.NewResultStore(db), items)
}

// saveAll saves every successful result and commits, aborting on the first
// failed save.
func saveAll(ctx context.Context, store wikiscrape.ResultStore, items []*wikiscrape.BatchItem) error {
	for _, item := range items {
		if !item.Success {
			continue
		}
		if err := store.Save(ctx, item.Result); err != nil {
			_ = store.Abort()
			return err
		}
	}
	return store.Commit()
}

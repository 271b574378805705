package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Settings  Settings
	Extractor wikiscrape.Extractor
	Renderer  wikiscrape.Renderer
	Scraper   *scrape.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string        `help:"YAML config file" type:"path" env:"WIKISCRAPE_CONFIG"`
	Verbose   bool          `short:"v" help:"Log fetches and extractions to stderr" env:"WIKISCRAPE_VERBOSE"`
	Timeout   time.Duration `help:"HTTP fetch timeout (default 30s)" env:"WIKISCRAPE_TIMEOUT"`
	UserAgent string        `name:"user-agent" help:"User-Agent sent to Wikipedia" env:"WIKISCRAPE_USER_AGENT"`

	Extract ExtractCmd `cmd:"" help:"Extract a single article"`
	Batch   BatchCmd   `cmd:"" help:"Extract several articles concurrently"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction HTTP API"`
	Archive ArchiveCmd `cmd:"" help:"List articles stored in a SQLite archive"`
}

// OptionFlags selects the optional fields of the extracted record.
type OptionFlags struct {
	Metadata bool `negatable:"" default:"true" help:"Include page metadata"`
	Links    bool `help:"Include internal article links"`
	Images   bool `help:"Include image URLs"`
	Tables   bool `help:"Include tables"`
}

// Options converts the flags to extraction options.
func (f OptionFlags) Options() wikiscrape.Options {
	return wikiscrape.Options{
		IncludeMetadata: f.Metadata,
		IncludeLinks:    f.Links,
		IncludeImages:   f.Images,
		IncludeTables:   f.Tables,
	}
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL    string `arg:"" help:"Wikipedia article URL"`
	File   string `short:"f" type:"existingfile" help:"Read the page from a local HTML file instead of fetching URL"`
	Format string `default:"json" enum:"json,markdown,text" help:"Output format (json, markdown, text)"`
	OptionFlags
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string `arg:"" name:"url" help:"Wikipedia article URLs"`
	Out         string   `short:"o" type:"path" help:"Write one JSON file per article into this directory"`
	Markdown    bool     `help:"Also write Markdown files next to the JSON files (requires --out)"`
	Concurrency int      `short:"c" help:"Concurrent article limit (default 4)"`
	DB          string   `name:"db" type:"path" help:"Also store results in this SQLite archive" env:"WIKISCRAPE_DB"`
	OptionFlags
}

// ArchiveCmd is the "archive" subcommand.
type ArchiveCmd struct {
	DB     string `arg:"" name:"db" type:"existingfile" help:"SQLite archive written by batch --db"`
	URL    string `help:"Print the stored record for this article URL as JSON"`
	Title  string `help:"Only list articles with this exact title"`
	Limit  int    `default:"50" help:"Maximum number of articles to list"`
	Offset int    `help:"Number of articles to skip"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (default :8000)" env:"WIKISCRAPE_ADDR"`
}

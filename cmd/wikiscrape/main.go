package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/goquery"
	"github.com/fwojciec/wikiscrape/htmltomarkdown"
	wikihttp "github.com/fwojciec/wikiscrape/http"
	"github.com/fwojciec/wikiscrape/scrape"
	wikislog "github.com/fwojciec/wikiscrape/slog"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// A missing file is ignored; empty disables loading.
	EnvFile string

	// Fetcher replaces the HTTP fetcher. Used for end-to-end testing.
	Fetcher wikiscrape.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := LoadEnvFile(m.EnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wikiscrape"),
		kong.Description("Extract structured content from Wikipedia articles."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wikiscrape --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var fc FileConfig
	if cli.Config != "" {
		if fc, err = LoadConfigFile(cli.Config); err != nil {
			return fmt.Errorf("failed to load config %q: %w", cli.Config, err)
		}
	}
	settings := ResolveSettings(cli, fc)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var fetcher wikiscrape.Fetcher = m.Fetcher
	if fetcher == nil {
		f := wikihttp.NewFetcher(
			wikihttp.WithTimeout(settings.Timeout),
			wikihttp.WithUserAgent(settings.UserAgent),
			wikihttp.WithMaxBodySize(settings.MaxBodySize),
		)
		defer f.Close()
		fetcher = f
	}

	var extractor wikiscrape.Extractor = goquery.NewExtractor(
		goquery.WithLogger(logger),
		goquery.WithSummaryLimits(settings.SummaryParagraphs, settings.SummaryMinLength),
	)

	if cli.Verbose {
		fetcher = wikislog.NewLoggingFetcher(fetcher, logger)
		extractor = wikislog.NewLoggingExtractor(extractor, logger)
	}

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Settings:  settings,
		Extractor: extractor,
		Renderer:  htmltomarkdown.NewRenderer(),
		Scraper: &scrape.Service{
			Fetcher:     fetcher,
			Extractor:   extractor,
			RetryDelays: settings.RetryDelays,
			Concurrency: settings.Concurrency,
			Logger:      logger,
		},
	}

	return kongCtx.Run(deps)
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/wikiscrape/goquery"
	wikihttp "github.com/fwojciec/wikiscrape/http"
	"github.com/fwojciec/wikiscrape/scrape"
	yaml "gopkg.in/yaml.v3"
)

// DefaultAddr is the listen address of the serve command.
const DefaultAddr = ":8000"

// FileConfig is the schema of the optional YAML config file. Zero values
// mean "not set", except for pointer fields where zero is meaningful.
type FileConfig struct {
	Fetch struct {
		Timeout     time.Duration   `yaml:"timeout"`
		UserAgent   string          `yaml:"userAgent"`
		MaxBodySize int64           `yaml:"maxBodySize"`
		RetryDelays []time.Duration `yaml:"retryDelays"`
	} `yaml:"fetch"`

	Batch struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"batch"`

	// A minLength of 0 keeps every non-empty paragraph of the window.
	Summary struct {
		Paragraphs *int `yaml:"paragraphs"`
		MinLength  *int `yaml:"minLength"`
	} `yaml:"summary"`

	Server struct {
		Addr           string        `yaml:"addr"`
		AllowedOrigins []string      `yaml:"allowedOrigins"`
		RequestTimeout time.Duration `yaml:"requestTimeout"`
	} `yaml:"server"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// Settings are the effective runtime settings after merging flags,
// environment, config file and defaults.
type Settings struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
	RetryDelays []time.Duration

	Concurrency int

	SummaryParagraphs int
	SummaryMinLength  int

	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// ResolveSettings merges settings in priority order: flags and environment
// (already applied to cli by kong), then the config file, then defaults.
func ResolveSettings(cli *CLI, fc FileConfig) Settings {
	s := Settings{
		Timeout:           first(cli.Timeout, fc.Fetch.Timeout, wikihttp.DefaultFetchTimeout),
		UserAgent:         first(cli.UserAgent, fc.Fetch.UserAgent, wikihttp.DefaultUserAgent),
		MaxBodySize:       first(fc.Fetch.MaxBodySize, wikihttp.DefaultMaxBodySize),
		RetryDelays:       fc.Fetch.RetryDelays,
		Concurrency:       first(cli.Batch.Concurrency, fc.Batch.Concurrency, scrape.DefaultConcurrency),
		SummaryParagraphs: valueOr(fc.Summary.Paragraphs, goquery.DefaultSummaryParagraphs),
		SummaryMinLength:  valueOr(fc.Summary.MinLength, goquery.DefaultSummaryMinLength),
		Addr:              first(cli.Serve.Addr, fc.Server.Addr, DefaultAddr),
		AllowedOrigins:    fc.Server.AllowedOrigins,
		RequestTimeout:    first(fc.Server.RequestTimeout, wikihttp.DefaultRequestTimeout),
	}
	if len(s.AllowedOrigins) == 0 {
		s.AllowedOrigins = []string{"*"}
	}
	return s
}

// first returns the first non-zero value.
func first[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// valueOr returns *p, or def when p is nil.
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

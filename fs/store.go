// Package fs provides file-based storage for extraction results.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/wikiscrape"
)

// Ensure ResultStore implements wikiscrape.ResultStore at compile time.
var _ wikiscrape.ResultStore = (*ResultStore)(nil)

// ResultStore implements wikiscrape.ResultStore with atomic update semantics.
// Results are saved to a temporary directory, then moved atomically on Commit.
type ResultStore struct {
	baseDir  string
	name     string
	renderer wikiscrape.Renderer
}

// Option configures a ResultStore.
type Option func(*ResultStore)

// WithRenderer also writes each result through r next to its JSON file,
// as <article>.md.
func WithRenderer(r wikiscrape.Renderer) Option {
	return func(s *ResultStore) {
		s.renderer = r
	}
}

// NewResultStore creates a new ResultStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewResultStore(baseDir, name string, opts ...Option) *ResultStore {
	s := &ResultStore{
		baseDir: baseDir,
		name:    name,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResultStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ResultStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes result as indented JSON to <host>/<article>.json inside the
// temporary directory.
func (s *ResultStore) Save(ctx context.Context, result *wikiscrape.Result) error {
	relPath, err := URLToPath(result.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return err
	}

	if s.renderer == nil {
		return nil
	}
	md, err := s.renderer.Render(result)
	if err != nil {
		return err
	}
	return os.WriteFile(strings.TrimSuffix(fullPath, ".json")+".md", []byte(md), 0644)
}

// Commit replaces the final directory with the temporary one.
func (s *ResultStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved since the store was created.
func (s *ResultStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// URLToPath converts an article URL to a relative file path.
// Example: https://en.wikipedia.org/wiki/Go_(language) → en.wikipedia.org/Go_(language).json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "cannot derive a file path from %q", rawURL)
	}

	article, ok := strings.CutPrefix(u.Path, "/wiki/")
	if !ok || article == "" {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "cannot derive a file path from %q", rawURL)
	}

	// Subpages contain slashes; keep them inside one file name.
	article = strings.NewReplacer("/", "_", `\`, "_").Replace(article)
	if article == "." || article == ".." {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "path traversal in %q", rawURL)
	}

	return filepath.Join(u.Host, article+".json"), nil
}

package wikiscrape

import "context"

// Renderer converts a Result into a human-readable document.
type Renderer interface {
	// Render returns the textual representation of the result.
	Render(result *Result) (string, error)
}

// ResultStore persists batch results with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ResultStore interface {
	Save(ctx context.Context, result *Result) error
	Commit() error
	Abort() error
}

package mock

import "github.com/fwojciec/wikiscrape"

var _ wikiscrape.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of wikiscrape.Renderer.
type Renderer struct {
	RenderFn func(result *wikiscrape.Result) (string, error)
}

func (r *Renderer) Render(result *wikiscrape.Result) (string, error) {
	return r.RenderFn(result)
}

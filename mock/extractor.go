package mock

import "github.com/fwojciec/wikiscrape"

var _ wikiscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of wikiscrape.Extractor.
type Extractor struct {
	ExtractFn func(req *wikiscrape.Request) (*wikiscrape.Result, error)
}

func (e *Extractor) Extract(req *wikiscrape.Request) (*wikiscrape.Result, error) {
	return e.ExtractFn(req)
}

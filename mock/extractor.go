package mock

import "github.com/fwojciec/readtext"

var _ readtext.PageExtractor = (*PageExtractor)(nil)

// PageExtractor is a mock implementation of readtext.PageExtractor.
type PageExtractor struct {
	ExtractPageFn func(html, pageURL string, visited readtext.Visited) (*readtext.Page, error)
}

func (e *PageExtractor) ExtractPage(html, pageURL string, visited readtext.Visited) (*readtext.Page, error) {
	return e.ExtractPageFn(html, pageURL, visited)
}

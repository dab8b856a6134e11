package readtext

import (
	"context"
	"strings"
)

// Article is the result of reading a (possibly paginated) article.
type Article struct {
	// URL is the address of the first page.
	URL string

	// Title comes from the first page only.
	Title string

	// Text is the concatenated article text of every page read.
	Text string

	// NextPageLink is the next page detected on the first page.
	NextPageLink string

	// Impossible reports that the first page could not be extracted.
	Impossible bool

	// Pages lists the URLs that contributed, in reading order.
	Pages []string

	// Content holds the cleaned article HTML of each contributing page.
	Content []string

	// Map relates Text offsets to source text nodes. Marks come from the
	// first page only. Nil when Impossible.
	Map *TextMap
}

// ArticleReader reads an article starting at a URL.
type ArticleReader interface {
	Read(ctx context.Context, url string) (*Article, error)
}

// Visited is the set of page URLs already read or chosen as next pages.
// URLs are stored without a trailing slash.
type Visited map[string]struct{}

// NewVisited returns an empty set.
func NewVisited() Visited {
	return make(Visited)
}

// Add records url as visited.
func (v Visited) Add(url string) {
	v[strings.TrimSuffix(url, "/")] = struct{}{}
}

// Has reports whether url was visited.
func (v Visited) Has(url string) bool {
	_, ok := v[strings.TrimSuffix(url, "/")]
	return ok
}

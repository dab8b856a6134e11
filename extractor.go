package readtext

// Page holds the extraction result for a single HTML document.
type Page struct {
	// URL is the address the page was read from.
	URL string

	// Title is the article title derived from <title> or a lone <h1>.
	Title string

	// Content is the cleaned article subtree rendered as HTML.
	// Empty when no article could be selected.
	Content string

	// Map is the flattened text of the article (or of the whole body when
	// Selected is false) with its offset ranges.
	Map *TextMap

	// NextPageLink is the detected next page of a paginated article.
	NextPageLink string

	// Selected reports whether an article root was found. When false, Map
	// holds the text of the whole body.
	Selected bool

	// Impossible is set when the page cannot be extracted at all, e.g. a
	// frameset document or unparseable markup.
	Impossible bool
}

// PageExtractor extracts the main content of one HTML document.
type PageExtractor interface {
	// ExtractPage processes decoded HTML read from pageURL.
	// The visited set is consulted and updated by next-page detection so
	// that a chain of pages never revisits a URL.
	ExtractPage(html string, pageURL string, visited Visited) (*Page, error)
}

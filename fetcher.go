package readtext

import "context"

// Fetcher retrieves a page and decodes it to a UTF-8 string.
// Implementations are responsible for character set detection; callers only
// ever see decoded text.
type Fetcher interface {
	// Fetch reads the page at url and returns its decoded HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

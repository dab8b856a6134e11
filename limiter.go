package readtext

import "context"

// PageLimiter spaces page fetches by the host of the page URL.
type PageLimiter interface {
	// Wait blocks until a fetch of pageURL is allowed. Returns an error if
	// pageURL cannot be parsed or the context is canceled.
	Wait(ctx context.Context, pageURL string) error
}

// Package http provides an HTTP-based implementation of readtext.Fetcher
// for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// maxBodySize bounds the bytes read from one response.
const maxBodySize = 16 << 20

const userAgent = "readtext/1.0 (+https://github.com/fwojciec/readtext)"

// Ensure Fetcher implements readtext.Fetcher at compile time.
var _ readtext.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over HTTP and decodes them to UTF-8.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	respectServer bool
	retryDelays   []time.Duration
	logger        *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRespectServerEncoding makes a charset named in the Content-Type
// response header take precedence over detection from the page content.
func WithRespectServerEncoding(respect bool) Option {
	return func(f *Fetcher) {
		f.respectServer = respect
	}
}

// WithRetryDelays retries failed fetches once per delay, waiting the delay
// before each retry. Client errors (4xx) are not retried. By default the
// fetcher does not retry.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// WithLogger sets the logger that receives retry attempts.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and returns it decoded to UTF-8.
// Non-200 responses and transport failures return EFETCH errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return withRetry(ctx, url, f.fetch, f.retryDelays, f.logger)
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", permanent(readtext.Errorf(readtext.EINVALID, "invalid request for %s: %v", url, err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", readtext.Errorf(readtext.EFETCH, "request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := readtext.Errorf(readtext.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", permanent(err)
		}
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", readtext.Errorf(readtext.EFETCH, "reading %s: %v", url, err)
	}

	text, _ := charset.Decode(body, resp.Header.Get("Content-Type"), f.respectServer)
	return text, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

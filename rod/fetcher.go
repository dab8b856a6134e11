// Package rod provides a readtext.Fetcher that renders pages in headless
// Chrome, for articles whose text is produced by scripts.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readtext"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default time allowed to load one page.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRecycleAfter is the default number of pages before the browser is
// restarted. Chrome's memory baseline grows with every page, even with
// proper page cleanup.
const DefaultRecycleAfter = 75

// Ensure Fetcher implements readtext.Fetcher at compile time.
var _ readtext.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// returned HTML is the serialized DOM after the load event, so it is always
// UTF-8 regardless of the page's declared charset.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout      time.Duration
	recycleAfter int64

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the time allowed to load one page.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets the number of pages after which the browser is
// restarted.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.closed.Load() {
		return "", readtext.Errorf(readtext.EINTERNAL, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.currentBrowser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", readtext.Errorf(readtext.EFETCH, "opening page for %s: %v", url, err)
	}
	defer page.Close()
	defer f.pages.Add(1)

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, or 0 after
// Close.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

func fetchError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("rendering %s: %w", url, ctx.Err())
	}
	return readtext.Errorf(readtext.EFETCH, "rendering %s: %v", url, err)
}

// currentBrowser returns the browser, restarting it first when it has
// served recycleAfter pages. A failed restart keeps the old browser.
func (f *Fetcher) currentBrowser() *rod.Browser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.recycleAfter > 0 && f.pages.Load() >= f.recycleAfter {
		oldBrowser, oldLauncher := f.browser, f.launcher
		if err := f.launch(); err != nil {
			f.browser, f.launcher = oldBrowser, oldLauncher
		} else {
			_ = oldBrowser.Close()
			oldLauncher.Kill()
			f.pages.Store(0)
		}
	}
	return f.browser
}

// launch starts a browser with flags that keep background pages from being
// throttled.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// shutdown must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/readtext"
	"golang.org/x/time/rate"
)

var _ readtext.PageLimiter = (*HostLimiter)(nil)

// HostLimiter keys a token bucket on the host of every page it is asked
// about. Articles on different hosts are read independently while the
// pages of one host, next pages of a paginated article included, are
// fetched at most perSecond times per second. Pages without a host, such
// as local files, are never delayed.
type HostLimiter struct {
	perSecond rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewHostLimiter creates a HostLimiter allowing perSecond fetches per
// second per host, without bursts.
func NewHostLimiter(perSecond float64) *HostLimiter {
	return &HostLimiter{
		perSecond: rate.Limit(perSecond),
		buckets:   make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host of pageURL has a token to spend.
func (l *HostLimiter) Wait(ctx context.Context, pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return readtext.Errorf(readtext.EINVALID, "invalid page URL %q", pageURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ctx.Err()
	}
	return l.bucket(host).Wait(ctx)
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.perSecond, 1)
		l.buckets[host] = b
	}
	return b
}
